package globalsearch

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"posearch/internal/api"
	"posearch/internal/domain"
	"posearch/internal/eventbus"
	"posearch/internal/metrics"
	"posearch/internal/ui/services/navigation"
	"posearch/internal/ui/services/search"
)

const (
	DefaultDelay   = 250 * time.Millisecond
	DefaultMaxRows = 10
)

// Callbacks are invoked when the user picks something. Any may be nil.
type Callbacks struct {
	OnPickPO   func(domain.POPick)
	OnPickLine func(poID, lineID domain.ID)
	OnClose    func()
}

// Options configures a Model
type Options struct {
	Client         api.SearchClient
	Bus            eventbus.EventBus
	Metrics        *metrics.Recorder
	Delay          time.Duration
	MinQueryLength int
	MaxRows        int
	Timeout        time.Duration
	Callbacks      Callbacks
}

// Model is the search overlay. It is driven by the host's update loop and
// must only be touched from there.
type Model struct {
	search *search.Service
	nav    *navigation.Service
	client api.SearchClient
	bus    eventbus.EventBus
	cb     Callbacks

	delay      time.Duration
	timeout    time.Duration
	debounceID uint64
	open       bool
}

// New creates a closed overlay
func New(opts Options) *Model {
	if opts.Delay <= 0 {
		opts.Delay = DefaultDelay
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = DefaultMaxRows
	}

	svc := search.NewService(opts.Bus, opts.MinQueryLength)
	if opts.Metrics != nil {
		svc.SetStaleFunction(opts.Metrics.StaleResponse)
	}

	return &Model{
		search:  svc,
		nav:     navigation.NewService(opts.MaxRows),
		client:  opts.Client,
		bus:     opts.Bus,
		cb:      opts.Callbacks,
		delay:   opts.Delay,
		timeout: opts.Timeout,
	}
}

// SetCallbacks replaces the selection callbacks
func (m *Model) SetCallbacks(cb Callbacks) {
	m.cb = cb
}

// Open shows the overlay with empty state
func (m *Model) Open() {
	if m.open {
		return
	}
	m.reset()
	m.open = true
	log.Printf("globalsearch: opened")
	m.publish(eventbus.OverlayOpenedEvent{})
}

// Close hides the overlay and forgets everything typed or fetched. Pending
// debounce ticks and in-flight responses are ignored from here on.
func (m *Model) Close() {
	if !m.open {
		return
	}
	m.open = false
	m.reset()
	log.Printf("globalsearch: closed")
	if m.cb.OnClose != nil {
		m.cb.OnClose()
	}
	m.publish(eventbus.OverlayClosedEvent{})
}

// IsOpen reports whether the overlay is showing
func (m *Model) IsOpen() bool {
	return m.open
}

func (m *Model) reset() {
	m.search.Reset()
	m.nav.Reset()
	m.debounceID++
}

// SetQuery records a keystroke and restarts the debounce timer
func (m *Model) SetQuery(query string) tea.Cmd {
	if !m.open {
		return nil
	}
	m.search.SetQuery(query)
	m.debounceID++
	id := m.debounceID
	return tea.Tick(m.delay, func(time.Time) tea.Msg {
		return debounceMsg{id: id, query: query}
	})
}

// Update handles messages addressed to the overlay. It reports whether the
// message was one of its own.
func (m *Model) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case debounceMsg:
		if !m.open || msg.id != m.debounceID {
			return nil, true
		}
		req, ok := m.search.Debounced(msg.query)
		m.syncRows()
		if !ok {
			return nil, true
		}
		return m.fetch(req), true

	case resultsMsg:
		if m.search.Complete(msg.token, msg.results, msg.err) {
			m.nav.Reset()
			m.syncRows()
		}
		return nil, true
	}
	return nil, false
}

func (m *Model) fetch(req search.Request) tea.Cmd {
	client := m.client
	timeout := m.timeout
	return func() tea.Msg {
		if client == nil {
			return resultsMsg{token: req.Token, err: api.ErrUnavailable}
		}
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res, err := client.Search(ctx, req.Query)
		if err != nil {
			log.Printf("globalsearch: search '%s' failed: %v", req.Query, err)
		}
		return resultsMsg{token: req.Token, results: res, err: err}
	}
}

// Navigate moves the highlight one step and keeps it on screen
func (m *Model) Navigate(dir navigation.Direction) {
	if !m.search.Move(dir.Delta()) {
		return
	}
	flat := m.search.Flat()
	idx := m.search.ActiveIndex()
	row := search.RowOf(flat, idx)
	if _, first := search.HeaderBefore(flat, idx); first && dir == navigation.DirectionUp {
		m.nav.ScrollIntoView(row - 1)
	}
	m.nav.ScrollIntoView(row)
}

// SelectActive acts on the highlighted result and closes the overlay
func (m *Model) SelectActive() tea.Cmd {
	item, ok := m.search.Active()
	if !ok {
		return nil
	}

	switch it := item.(type) {
	case search.POItem:
		pick := domain.POPick{ID: it.PO.ID, PONumber: it.PO.PONumber}
		log.Printf("globalsearch: picked PO %s (%s)", pick.PONumber, pick.ID)
		if m.cb.OnPickPO != nil {
			m.cb.OnPickPO(pick)
		}
	case search.LineItem:
		log.Printf("globalsearch: picked line %s of PO %s", it.Line.LineID, it.Line.POID)
		if m.cb.OnPickLine != nil {
			m.cb.OnPickLine(it.Line.POID, it.Line.LineID)
		}
	case search.VendorItem:
		// vendors have no destination yet
		log.Printf("globalsearch: vendor selected: %s", it.Vendor.Name)
		m.publish(eventbus.VendorSelectedEvent{VendorID: it.Vendor.ID, Name: it.Vendor.Name})
	}

	m.Close()
	return nil
}

// Search exposes the underlying state for rendering and tests
func (m *Model) Search() *search.Service {
	return m.search
}

// ResultCount returns the number of navigable results
func (m *Model) ResultCount() int {
	return len(m.search.Flat())
}

// Loading reports whether a search is in flight
func (m *Model) Loading() bool {
	return m.search.Loading()
}

func (m *Model) syncRows() {
	m.nav.SetTotalRows(len(search.Rows(m.search.Flat())))
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}
