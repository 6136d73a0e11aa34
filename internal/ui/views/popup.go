package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay renders popup centered horizontally near the top of
// mainContent, which is greyed out behind it
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popup string, height, width int) string {
	modalW := lipgloss.Width(popup)
	modalH := lipgloss.Height(popup)

	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := height / 6
	if y+modalH > height {
		y = height - modalH
	}
	if y < 0 {
		y = 0
	}

	base := strings.Split(desaturateANSI(mainContent), "\n")
	for len(base) < y+modalH {
		base = append(base, "")
	}

	gray := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	for i, line := range strings.Split(popup, "\n") {
		plain := []rune(base[y+i])
		left := padRunes(plain, x)
		var right string
		if end := x + lipgloss.Width(line); end < len(plain) {
			right = gray.Render(string(plain[end:]))
		}
		base[y+i] = gray.Render(left) + line + right
	}

	out := base
	if height > 0 && len(out) > height {
		out = out[:height]
	}
	return strings.Join(out, "\n")
}

func padRunes(r []rune, n int) string {
	if len(r) >= n {
		return string(r[:n])
	}
	return string(r) + strings.Repeat(" ", n-len(r))
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes
func desaturateANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}
