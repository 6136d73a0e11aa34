package navigation

// Service keeps a row viewport scrolled so the active row stays visible
type Service struct {
	state *State
}

// NewService creates a viewport of the given height
func NewService(height int) *Service {
	if height < 1 {
		height = 1
	}
	return &Service{
		state: &State{ViewportHeight: height},
	}
}

// GetViewportOffset returns the first visible row
func (s *Service) GetViewportOffset() int {
	return s.state.ViewportOffset
}

// GetViewportHeight returns the number of visible rows
func (s *Service) GetViewportHeight() int {
	return s.state.ViewportHeight
}

// SetViewportHeight updates viewport height
func (s *Service) SetViewportHeight(height int) {
	if height < 1 {
		height = 1
	}
	s.state.ViewportHeight = height
	s.clampOffset()
}

// SetTotalRows tells the viewport how many rows the list has now
func (s *Service) SetTotalRows(total int) {
	if total < 0 {
		total = 0
	}
	s.state.TotalRows = total
	s.clampOffset()
}

// ScrollIntoView scrolls the minimum amount needed to show row. A row that
// is already visible leaves the viewport untouched. It reports whether the
// offset changed.
func (s *Service) ScrollIntoView(row int) bool {
	if row < 0 {
		return false
	}
	old := s.state.ViewportOffset
	if row < s.state.ViewportOffset {
		s.state.ViewportOffset = row
	} else if row >= s.state.ViewportOffset+s.state.ViewportHeight {
		s.state.ViewportOffset = row - s.state.ViewportHeight + 1
	}
	return old != s.state.ViewportOffset
}

// IsVisible reports whether row is inside the viewport
func (s *Service) IsVisible(row int) bool {
	return row >= s.state.ViewportOffset && row < s.state.ViewportOffset+s.state.ViewportHeight
}

// VisibleRange returns the half-open row range [start, end) to render
func (s *Service) VisibleRange() (int, int) {
	start := s.state.ViewportOffset
	end := start + s.state.ViewportHeight
	if end > s.state.TotalRows {
		end = s.state.TotalRows
	}
	if start > end {
		start = end
	}
	return start, end
}

// Reset scrolls back to the top
func (s *Service) Reset() {
	s.state.ViewportOffset = 0
	s.state.TotalRows = 0
}

func (s *Service) clampOffset() {
	maxOffset := s.state.TotalRows - s.state.ViewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.state.ViewportOffset > maxOffset {
		s.state.ViewportOffset = maxOffset
	}
	if s.state.ViewportOffset < 0 {
		s.state.ViewportOffset = 0
	}
}
