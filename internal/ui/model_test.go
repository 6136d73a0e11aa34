package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"posearch/internal/config"
	"posearch/internal/domain"
	"posearch/internal/eventbus"
	inputtypes "posearch/internal/ui/input/types"
)

type stubClient struct {
	mu      sync.Mutex
	queries []string
	results *domain.SearchResults
}

func (c *stubClient) Search(ctx context.Context, query string) (*domain.SearchResults, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries = append(c.queries, query)
	return c.results, nil
}

func (c *stubClient) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

func newTestModel(t *testing.T, bus eventbus.EventBus, results *domain.SearchResults) (*Model, *stubClient) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Search.DebounceMs = 1

	client := &stubClient{results: results}
	m := NewModel(bus, cfg, client, nil)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, client
}

// run executes cmd and feeds what it produces back into the model. Commands
// that don't finish quickly (cursor blink) are dropped.
func run(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(100 * time.Millisecond):
		return
	}

	switch msg := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range msg {
			run(m, c)
		}
	case tea.QuitMsg:
	default:
		_, next := m.Update(msg)
		run(m, next)
	}
}

func press(m *Model, key tea.KeyMsg) {
	_, cmd := m.Update(key)
	run(m, cmd)
}

func typeText(m *Model, s string) {
	for _, r := range s {
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func acme() *domain.SearchResults {
	return &domain.SearchResults{
		POs:     []domain.POResult{{ID: "p1", PONumber: "PO-100", VendorName: "Acme Corp"}},
		Vendors: []domain.VendorResult{{ID: "v1", Name: "Acme Corp", POCount: 3}},
	}
}

func TestSearchAndPickPO(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()

	picked := make(chan domain.POPick, 1)
	bus.Subscribe(eventbus.EventPOPicked, func(e eventbus.DomainEvent) {
		picked <- e.(eventbus.POPickedEvent).Pick
	})

	m, client := newTestModel(t, bus, acme())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	require.True(t, m.Overlay().IsOpen())
	assert.Equal(t, inputtypes.ModeSearch, m.inputHandler.CurrentMode())

	typeText(m, "acme")
	assert.GreaterOrEqual(t, client.count(), 1)
	assert.Contains(t, m.View(), "Purchase Orders")

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Overlay().IsOpen())
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
	assert.Contains(t, m.View(), "PO-100")

	select {
	case p := <-picked:
		assert.Equal(t, domain.POPick{ID: "p1", PONumber: "PO-100"}, p)
	case <-time.After(time.Second):
		t.Fatal("POPicked not published")
	}
}

func TestVendorSelectionClosesOverlay(t *testing.T) {
	m, _ := newTestModel(t, nil, acme())

	press(m, tea.KeyMsg{Type: tea.KeyCtrlK})
	typeText(m, "ACME")
	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.Overlay().IsOpen())
	assert.Nil(t, m.lastPick)
	assert.Equal(t, inputtypes.ModeNormal, m.inputHandler.CurrentMode())
}

func TestEscapeClosesAndReopenIsClean(t *testing.T) {
	m, _ := newTestModel(t, nil, acme())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	typeText(m, "acme")
	require.NotNil(t, m.Overlay().Search().Results())

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.Overlay().IsOpen())

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.True(t, m.Overlay().IsOpen())
	assert.Empty(t, m.Overlay().Search().Query())
	assert.Nil(t, m.Overlay().Search().Results())
	assert.Empty(t, m.inputHandler.TextInput().Value())
}

func TestArrowKeysIgnoredWhileClosed(t *testing.T) {
	m, client := newTestModel(t, nil, acme())

	press(m, tea.KeyMsg{Type: tea.KeyDown})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Overlay().IsOpen())
	assert.Zero(t, client.count())
	assert.Contains(t, m.View(), "Nothing picked yet")
}

func TestInlineHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "posearch Help")

	press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.False(t, m.showHelp)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t, nil, nil)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	msgs := flatten(cmd())
	assert.Contains(t, msgs, tea.Msg(tea.QuitMsg{}))
}

func flatten(msg tea.Msg) []tea.Msg {
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			if c != nil {
				out = append(out, flatten(c())...)
			}
		}
		return out
	}
	return []tea.Msg{msg}
}
