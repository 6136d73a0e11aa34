package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"posearch/internal/ui/input/types"
	"posearch/internal/ui/services/navigation"
)

// SearchMode owns the overlay's key bindings. They exist only while this
// mode is current: Enter opens the overlay and Exit closes it, so leaving
// the mode by any route releases them.
type SearchMode struct {
	textInput *textinput.Model
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{textInput: ti}
}

func (m *SearchMode) Name() string {
	return "search"
}

func (m *SearchMode) Enter(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Reset()
		m.textInput.Prompt = "" // Prompt is handled in the UI layer
		m.textInput.Focus()
	}
	return []types.Action{types.OpenSearchAction{}}
}

func (m *SearchMode) Exit(ctx types.Context) []types.Action {
	if m.textInput != nil {
		m.textInput.Blur()
		m.textInput.Reset()
	}
	return []types.Action{types.CloseSearchAction{}}
}

func (m *SearchMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyEsc:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: navigation.DirectionUp}}, true
	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: navigation.DirectionDown}}, true
	case tea.KeyEnter:
		return []types.Action{types.SelectAction{}}, true
	}

	// Let the main handler update the text input
	return nil, false
}
