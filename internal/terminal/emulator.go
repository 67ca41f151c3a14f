package terminal

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hinshun/vt10x"

	"github.com/noirtty/noirtty-server/internal/logger"
)

// Attribute mode bits. vt10x does not export its internal Glyph.Mode bit
// layout, so these mirror the subset empirically confirmed by the example
// corpus (bold/underline/blink/reverse/italic); faint and the wide-char
// dummy-cell marker extend that subset by best-effort convention and are
// not independently verified against the library, matching the spec's own
// acknowledgement that the wide-character visual contract is left to the
// emulator engine.
const (
	attrBold      = 1 << 0
	attrUnderline = 1 << 1
	attrBlink     = 1 << 2
	attrReverse   = 1 << 3
	attrItalic    = 1 << 4
	attrFaint     = 1 << 5
	attrWDummy    = 1 << 10
)

const scrollbackCapacity = 2000

// Emulator drives a vt10x terminal for one session: it advances the VT
// state machine on PTY output, tracks a shadow scrollback for Scroll
// commands (vt10x exposes no native viewport/history API), applies the
// per-session throttle, and publishes frames to a Broadcaster.
type Emulator struct {
	id   SessionId
	vt   vt10x.Terminal
	cols int
	rows int

	mu            sync.Mutex
	displayOffset int
	history       [][]vt10x.Glyph // shadow scrollback, oldest first, bounded

	minIntervalMs *atomic.Int64
	broadcaster   *Broadcaster
}

// NewEmulator constructs an Emulator sized cols x rows, publishing to b.
func NewEmulator(id SessionId, cols, rows int, minIntervalMs *atomic.Int64, b *Broadcaster) *Emulator {
	vt := vt10x.New(vt10x.WithSize(cols, rows))
	return &Emulator{
		id:            id,
		vt:            vt,
		cols:          cols,
		rows:          rows,
		minIntervalMs: minIntervalMs,
		broadcaster:   b,
	}
}

// Run consumes TermCommands until queue is closed, coalescing bursts and
// throttling emission per §4.3.
func (e *Emulator) Run(queue <-chan TermCommand) {
	lastEmit := time.Now().Add(-time.Hour)
	for cmd, ok := <-queue; ok; cmd, ok = <-queue {
		e.apply(cmd)
		e.drainAvailable(queue)

		if wait := e.throttleWait(lastEmit); wait > 0 {
			time.Sleep(wait)
		}
		lastEmit = time.Now()

		e.publish()
	}
}

func (e *Emulator) drainAvailable(queue <-chan TermCommand) {
	for {
		select {
		case cmd, ok := <-queue:
			if !ok {
				return
			}
			e.apply(cmd)
		default:
			return
		}
	}
}

func (e *Emulator) apply(cmd TermCommand) {
	switch cmd.Kind {
	case TermData:
		e.recordScrollback()
		if _, err := e.vt.Write(cmd.Data); err != nil {
			logger.Debugf("session %s: emulator write error: %v", e.id, err)
		}
	case TermResize:
		e.mu.Lock()
		e.cols, e.rows = int(cmd.Cols), int(cmd.Rows)
		e.mu.Unlock()
		e.vt.Resize(int(cmd.Cols), int(cmd.Rows))
	case TermScroll:
		e.mu.Lock()
		e.displayOffset += cmd.Delta
		if e.displayOffset < 0 {
			e.displayOffset = 0
		}
		if e.displayOffset > len(e.history) {
			e.displayOffset = len(e.history)
		}
		e.mu.Unlock()
	}
}

// recordScrollback captures the grid's current top row into the shadow
// history before new output potentially scrolls it away. This is a best
// effort approximation: it can only see one row boundary per Data command,
// so a single burst that scrolls the screen by many lines loses the
// intermediate rows. Documented as an accepted limitation.
func (e *Emulator) recordScrollback() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cols == 0 || e.rows == 0 {
		return
	}
	row := make([]vt10x.Glyph, e.cols)
	for x := 0; x < e.cols; x++ {
		row[x] = e.vt.Cell(x, 0)
	}
	e.history = append(e.history, row)
	if len(e.history) > scrollbackCapacity {
		e.history = e.history[len(e.history)-scrollbackCapacity:]
	}
}

func (e *Emulator) throttleWait(lastEmit time.Time) time.Duration {
	min := e.minIntervalMs.Load()
	if min <= 0 {
		return 0
	}
	elapsed := time.Since(lastEmit)
	want := time.Duration(min) * time.Millisecond
	if elapsed >= want {
		return 0
	}
	return want - elapsed
}

// publish builds a Frame from current emulator state and hands it to the
// broadcaster.
func (e *Emulator) publish() {
	e.broadcaster.Publish(NewFrameMessage(e.buildFrame()))
}

func (e *Emulator) buildFrame() Frame {
	e.mu.Lock()
	cols, rows, offset := e.cols, e.rows, e.displayOffset
	history := e.history
	e.mu.Unlock()

	cells := make([]Cell, cols*rows)
	for i := range cells {
		cells[i] = DefaultCell
	}

	// The visible viewport is a window of `rows` lines over a virtual
	// buffer of [history rows..., live grid rows...]; windowStart is
	// len(history)-offset (clamped non-negative), so offset==0 shows
	// exactly the live grid and offset==len(history) scrolls all the
	// way back to the oldest captured row.
	windowStart := len(history) - offset
	if windowStart < 0 {
		windowStart = 0
	}

	for y := 0; y < rows; y++ {
		virtual := windowStart + y
		for x := 0; x < cols; x++ {
			var g vt10x.Glyph
			if virtual < len(history) {
				if x < len(history[virtual]) {
					g = history[virtual][x]
				}
			} else {
				liveY := virtual - len(history)
				if liveY >= rows {
					continue
				}
				g = e.vt.Cell(x, liveY)
			}
			cells[y*cols+x] = convertGlyph(g)
		}
	}

	cursor := e.vt.Cursor()
	visible := e.vt.CursorVisible()
	var cursorCol, cursorRow uint16
	if visible {
		cr := cursor.Y + offset
		if cr < 0 || cr >= rows {
			visible = false
		} else {
			cursorRow = uint16(cr)
			cursorCol = uint16(cursor.X)
		}
	}

	return Frame{
		Cols:          uint16(cols),
		Rows:          uint16(rows),
		CursorCol:     cursorCol,
		CursorRow:     cursorRow,
		CursorVisible: visible,
		Cells:         cells,
	}
}

func convertGlyph(g vt10x.Glyph) Cell {
	faint := g.Mode&attrFaint != 0
	fg := resolveColor(g.FG, DefaultFG, faint)
	bg := resolveColor(g.BG, DefaultBG, false)
	inverse := g.Mode&attrReverse != 0
	if inverse {
		fg, bg = bg, fg
	}

	ch := g.Char
	if g.Mode&attrWDummy != 0 {
		ch = ' '
	}

	return Cell{
		Char:      ch,
		FG:        fg,
		BG:        bg,
		Bold:      g.Mode&attrBold != 0,
		Italic:    g.Mode&attrItalic != 0,
		Underline: g.Mode&attrUnderline != 0,
		Inverse:   inverse,
	}
}
