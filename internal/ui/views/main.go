package views

import (
	"fmt"
	"strings"
)

// Pick describes the last thing chosen from the search overlay
type Pick struct {
	Kind     string // "po" or "line"
	PONumber string
	POID     string
	LineID   string
}

// MainView is everything the base screen shows
type MainView struct {
	Width    int
	Height   int
	BaseURL  string
	LastPick *Pick
	Status   string
	IsError  bool
	HelpLine string
}

// Renderer renders the base screen
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new renderer
func NewRenderer(styles *Styles) *Renderer {
	return &Renderer{styles: styles}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render renders the base screen
func (r *Renderer) Render(v MainView) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render("posearch"))
	b.WriteString("\n")
	b.WriteString(r.styles.Dim.Render("backend: " + v.BaseURL))
	b.WriteString("\n\n")

	b.WriteString(r.styles.Panel.Render(r.renderPick(v.LastPick)))
	b.WriteString("\n")

	if v.Status != "" {
		style := r.styles.Status
		if v.IsError {
			style = r.styles.StatusError
		}
		b.WriteString(style.Render(v.Status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.styles.Help.Render(v.HelpLine))

	return r.styles.Main.Render(b.String())
}

func (r *Renderer) renderPick(p *Pick) string {
	if p == nil {
		return r.styles.Dim.Render("Nothing picked yet. Press / to search.")
	}
	label := func(k, v string) string {
		return fmt.Sprintf("%s %s", r.styles.Label.Render(k), r.styles.Value.Render(v))
	}
	switch p.Kind {
	case "line":
		return strings.Join([]string{
			r.styles.Label.Render("Last pick: line item"),
			label("PO id:  ", p.POID),
			label("Line id:", p.LineID),
		}, "\n")
	default:
		return strings.Join([]string{
			r.styles.Label.Render("Last pick: purchase order"),
			label("PO:   ", p.PONumber),
			label("PO id:", p.POID),
		}, "\n")
	}
}
