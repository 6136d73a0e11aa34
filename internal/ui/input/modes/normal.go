package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"posearch/internal/ui/input/types"
)

// NormalMode is active while the search overlay is closed
type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyCtrlK:
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case tea.KeyEnter:
		return []types.Action{types.ShowPickAction{}}, true
	}

	switch msg.String() {
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "q":
		return []types.Action{types.QuitAction{}}, true
	}

	return nil, false
}
