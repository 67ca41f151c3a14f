package watchclient

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/noirtty/noirtty-server/internal/terminal"
)

// RenderFrame renders a Frame as a string of styled terminal rows, for
// dumping a session's screen to a debug terminal.
func RenderFrame(f terminal.Frame) string {
	var b strings.Builder
	for row := 0; row < int(f.Rows); row++ {
		for col := 0; col < int(f.Cols); col++ {
			cell := f.Cells[row*int(f.Cols)+col]
			b.WriteString(renderCell(cell))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func renderCell(c terminal.Cell) string {
	// FG/BG are already swapped server-side for inverse cells (see
	// convertGlyph), so lipgloss must not reverse them again here.
	style := lipgloss.NewStyle().
		Foreground(rgbColor(c.FG)).
		Background(rgbColor(c.BG)).
		Bold(c.Bold).
		Italic(c.Italic).
		Underline(c.Underline)

	ch := c.Char
	if ch == 0 {
		ch = ' '
	}
	return style.Render(string(ch))
}

func rgbColor(c terminal.RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}
