package ui

import (
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"posearch/internal/api"
	"posearch/internal/config"
	"posearch/internal/domain"
	"posearch/internal/eventbus"
	"posearch/internal/metrics"
	"posearch/internal/ui/globalsearch"
	"posearch/internal/ui/input"
	inputtypes "posearch/internal/ui/input/types"
	"posearch/internal/ui/views"
)

const normalHelpLine = "/ search · enter last pick · ? help · q quit"

// Model represents the UI state
type Model struct {
	bus    eventbus.EventBus
	config *config.Config

	width  int
	height int

	lastPick *views.Pick
	status   string
	isError  bool
	showHelp bool // inline help, used when no program is attached

	styles       *views.Styles
	renderer     *views.Renderer
	popup        *views.PopupRenderer
	helpRenderer *HelpRenderer
	inputHandler *input.Handler
	overlay      *globalsearch.Model

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, client api.SearchClient, rec *metrics.Recorder) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	styles := views.NewStyles()

	m := &Model{
		bus:          bus,
		config:       cfg,
		styles:       styles,
		renderer:     views.NewRenderer(styles),
		popup:        views.NewPopupRenderer(styles),
		helpRenderer: NewHelpRenderer(),
		inputHandler: input.New(),
	}

	m.overlay = globalsearch.New(globalsearch.Options{
		Client:         client,
		Bus:            bus,
		Metrics:        rec,
		Delay:          cfg.Debounce(),
		MinQueryLength: cfg.Search.MinQueryLength,
		MaxRows:        cfg.Search.MaxVisibleRows,
		Timeout:        cfg.Timeout(),
	})
	m.overlay.SetCallbacks(globalsearch.Callbacks{
		OnPickPO:   m.pickPO,
		OnPickLine: m.pickLine,
		OnClose:    m.overlayClosed,
	})

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			switch msg.String() {
			case "esc", "?", "q":
				m.showHelp = false
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

		actions, cmd := m.inputHandler.HandleKey(msg, m.overlay)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	case helpPagerMsg:
		if msg.err != nil {
			log.Printf("ui: help pager failed: %v", msg.err)
			m.setStatus(fmt.Sprintf("Help unavailable: %v", msg.err), true)
		}
		return m, nil
	}

	if cmd, handled := m.overlay.Update(msg); handled {
		return m, cmd
	}
	return m, m.inputHandler.Update(msg)
}

func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.OpenSearchAction:
		m.overlay.Open()
	case inputtypes.CloseSearchAction:
		m.overlay.Close()
	case inputtypes.UpdateTextAction:
		return m.overlay.SetQuery(a.Text)
	case inputtypes.NavigateAction:
		m.overlay.Navigate(a.Direction)
	case inputtypes.SelectAction:
		return m.overlay.SelectActive()
	case inputtypes.ShowPickAction:
		m.showLastPick()
	case inputtypes.ToggleHelpAction:
		return m.toggleHelp()
	case inputtypes.QuitAction:
		return tea.Quit
	}
	return nil
}

func (m *Model) pickPO(pick domain.POPick) {
	m.lastPick = &views.Pick{Kind: "po", PONumber: pick.PONumber, POID: pick.ID.String()}
	m.setStatus(fmt.Sprintf("Opened purchase order %s", pick.PONumber), false)
	m.publish(eventbus.POPickedEvent{Pick: pick})
}

func (m *Model) pickLine(poID, lineID domain.ID) {
	m.lastPick = &views.Pick{Kind: "line", POID: poID.String(), LineID: lineID.String()}
	m.setStatus(fmt.Sprintf("Opened line %s of purchase order %s", lineID, poID), false)
	m.publish(eventbus.LinePickedEvent{Pick: domain.LinePick{POID: poID, LineID: lineID}})
}

// overlayClosed puts the input back in normal mode when the overlay
// closes itself after a selection
func (m *Model) overlayClosed() {
	m.inputHandler.Leave(m.overlay)
}

func (m *Model) showLastPick() {
	if m.lastPick == nil {
		m.setStatus("Nothing picked yet", false)
		return
	}
	switch m.lastPick.Kind {
	case "line":
		m.setStatus(fmt.Sprintf("Last pick: line %s of purchase order %s", m.lastPick.LineID, m.lastPick.POID), false)
	default:
		m.setStatus(fmt.Sprintf("Last pick: purchase order %s", m.lastPick.PONumber), false)
	}
}

func (m *Model) toggleHelp() tea.Cmd {
	if m.program == nil {
		m.showHelp = !m.showHelp
		return nil
	}
	ops := NewHelpOps(m.program)
	content := m.helpRenderer.RenderHelpContent()
	return func() tea.Msg {
		return helpPagerMsg{err: ops.ShowHelpInPager(content)}
	}
}

func (m *Model) setStatus(s string, isError bool) {
	m.status = s
	m.isError = isError
}

func (m *Model) publish(e eventbus.DomainEvent) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// Overlay returns the search overlay
func (m *Model) Overlay() *globalsearch.Model {
	return m.overlay
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	base := m.renderer.Render(views.MainView{
		Width:    m.width,
		Height:   m.height,
		BaseURL:  m.config.API.BaseURL,
		LastPick: m.lastPick,
		Status:   m.status,
		IsError:  m.isError,
		HelpLine: normalHelpLine,
	})

	switch {
	case m.showHelp:
		help := m.styles.Popup.Render(m.helpRenderer.RenderHelpContent())
		return m.popup.RenderPopupOverlay(base, help, m.height, m.width)
	case m.overlay.IsOpen():
		var inputView string
		if ti := m.inputHandler.TextInput(); ti != nil {
			inputView = ti.View()
		}
		return m.popup.RenderPopupOverlay(base, m.overlay.View(inputView, m.width), m.height, m.width)
	}
	return base
}
