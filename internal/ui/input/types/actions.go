package types

import "posearch/internal/ui/services/navigation"

// Navigation actions
type NavigateAction struct {
	Direction navigation.Direction
}

func (a NavigateAction) Type() string { return "navigate" }

// SelectAction picks the active search result
type SelectAction struct{}

func (a SelectAction) Type() string { return "select" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

// Overlay lifetime actions, emitted by the search mode's Enter and Exit
type OpenSearchAction struct{}

func (a OpenSearchAction) Type() string { return "open_search" }

type CloseSearchAction struct{}

func (a CloseSearchAction) Type() string { return "close_search" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type ShowPickAction struct{}

func (a ShowPickAction) Type() string { return "show_pick" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
