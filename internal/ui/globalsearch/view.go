package globalsearch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"posearch/internal/ui/services/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))
	itemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	scrollStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

// Label returns the one-line description of a result
func Label(item search.FlatResult) string {
	switch it := item.(type) {
	case search.POItem:
		po := it.PO
		return fmt.Sprintf("%s  %s  ·  %s units  ·  $%.2f",
			po.PONumber, po.VendorName, trimFloat(po.TotalLinesQty), po.EstCost)
	case search.LineItem:
		l := it.Line
		parts := []string{l.ProductName, l.PONumber}
		if code := lineCode(l.SynergyID, l.UPC, l.ASIN); code != "" {
			parts = append(parts, code)
		}
		parts = append(parts, fmt.Sprintf("qty %d @ $%.2f", l.Qty, l.UnitCost))
		return strings.Join(parts, "  ·  ")
	case search.VendorItem:
		v := it.Vendor
		noun := "POs"
		if v.POCount == 1 {
			noun = "PO"
		}
		return fmt.Sprintf("%s  (%d %s)", v.Name, v.POCount, noun)
	}
	return ""
}

func lineCode(synergyID, upc, asin string) string {
	switch {
	case synergyID != "":
		return synergyID
	case upc != "":
		return "UPC " + upc
	case asin != "":
		return "ASIN " + asin
	}
	return ""
}

func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}

// View renders the overlay box. inputView is the rendered text input.
func (m *Model) View(inputView string, width int) string {
	if !m.open {
		return ""
	}

	boxWidth := width - 10
	if boxWidth > 100 {
		boxWidth = 100
	}
	if boxWidth < 30 {
		boxWidth = 30
	}
	inner := boxWidth - 4

	var b strings.Builder
	b.WriteString(promptStyle.Render("Search: "))
	b.WriteString(inputView)
	b.WriteString("\n")

	if status := m.search.StatusLine(); status != "" {
		style := statusStyle
		if m.search.Err() != "" {
			style = errorStyle
		}
		b.WriteString("\n")
		b.WriteString(style.Render(status))
	}

	flat := m.search.Flat()
	rows := search.Rows(flat)
	if len(rows) > 0 {
		start, end := m.nav.VisibleRange()
		b.WriteString("\n")
		if start > 0 {
			b.WriteString(scrollStyle.Render("  ↑ more"))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			row := rows[i]
			if row.IsHeader() {
				b.WriteString(headerStyle.Render(row.Header))
			} else {
				line := truncate("  "+Label(flat[row.ItemIndex]), inner)
				if row.ItemIndex == m.search.ActiveIndex() {
					b.WriteString(activeStyle.Width(inner).Render(line))
				} else {
					b.WriteString(itemStyle.Render(line))
				}
			}
			if i < end-1 {
				b.WriteString("\n")
			}
		}
		if end < len(rows) {
			b.WriteString("\n")
			b.WriteString(scrollStyle.Render("  ↓ more"))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(statusStyle.Render("↑/↓ navigate · enter open · esc close"))

	return boxStyle.Width(boxWidth).Render(b.String())
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
