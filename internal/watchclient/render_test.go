package watchclient

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noirtty/noirtty-server/internal/terminal"
)

func TestRenderFrameProducesOneLinePerRow(t *testing.T) {
	f := terminal.Frame{
		Cols: 2, Rows: 2,
		Cells: []terminal.Cell{
			{Char: 'H', FG: terminal.DefaultFG, BG: terminal.DefaultBG},
			{Char: 'i', FG: terminal.DefaultFG, BG: terminal.DefaultBG},
			{Char: ' ', FG: terminal.DefaultFG, BG: terminal.DefaultBG},
			{Char: '!', FG: terminal.DefaultFG, BG: terminal.DefaultBG, Bold: true},
		},
	}

	out := RenderFrame(f)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "H")
	assert.Contains(t, lines[1], "!")
}

func TestRenderFrameBlanksNullChar(t *testing.T) {
	f := terminal.Frame{
		Cols: 1, Rows: 1,
		Cells: []terminal.Cell{{Char: 0, FG: terminal.DefaultFG, BG: terminal.DefaultBG}},
	}
	out := RenderFrame(f)
	assert.NotEmpty(t, out)
}
