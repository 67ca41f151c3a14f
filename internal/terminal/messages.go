package terminal

// Cell is one character position in the grid, with styling resolved to
// concrete RGB per §4.5 of the terminal core design.
type Cell struct {
	Char      rune `json:"c"`
	FG        RGB  `json:"fg"`
	BG        RGB  `json:"bg"`
	Bold      bool `json:"bold"`
	Italic    bool `json:"italic"`
	Underline bool `json:"underline"`
	Inverse   bool `json:"inverse"`
}

// DefaultCell is space on the default background/foreground with no
// attributes, used to initialize a fresh Frame's grid.
var DefaultCell = Cell{Char: ' ', FG: DefaultFG, BG: DefaultBG}

// Frame is an immutable full snapshot of the grid and cursor at an instant.
type Frame struct {
	Cols          uint16 `json:"cols"`
	Rows          uint16 `json:"rows"`
	CursorCol     uint16 `json:"cursor_col"`
	CursorRow     uint16 `json:"cursor_row"`
	CursorVisible bool   `json:"cursor_visible"`
	Cells         []Cell `json:"cells"`
}

// ServerMessageType is the wire discriminator for ServerMessage.
type ServerMessageType string

// FrameMessage is the only ServerMessage variant defined today. The type
// field is explicit so additional variants can be added without
// renumbering or breaking older decoders.
const FrameMessage ServerMessageType = "frame"

// ServerMessage is the tagged union sent from server to client. The Frame
// fields are always encoded, zero values included.
type ServerMessage struct {
	Type          ServerMessageType `json:"type"`
	Cols          uint16            `json:"cols"`
	Rows          uint16            `json:"rows"`
	CursorCol     uint16            `json:"cursor_col"`
	CursorRow     uint16            `json:"cursor_row"`
	CursorVisible bool              `json:"cursor_visible"`
	Cells         []Cell            `json:"cells"`
}

// NewFrameMessage wraps a Frame as a ServerMessage.
func NewFrameMessage(f Frame) ServerMessage {
	return ServerMessage{
		Type:          FrameMessage,
		Cols:          f.Cols,
		Rows:          f.Rows,
		CursorCol:     f.CursorCol,
		CursorRow:     f.CursorRow,
		CursorVisible: f.CursorVisible,
		Cells:         f.Cells,
	}
}

// Frame extracts the Frame carried by this message. Only valid when
// Type == FrameMessage.
func (m ServerMessage) Frame() Frame {
	return Frame{
		Cols:          m.Cols,
		Rows:          m.Rows,
		CursorCol:     m.CursorCol,
		CursorRow:     m.CursorRow,
		CursorVisible: m.CursorVisible,
		Cells:         m.Cells,
	}
}

// ClientMessageType is the wire discriminator for ClientMessage.
type ClientMessageType string

const (
	ClientData     ClientMessageType = "data"
	ClientResize   ClientMessageType = "resize"
	ClientScroll   ClientMessageType = "scroll"
	ClientQuality  ClientMessageType = "quality"
)

// ClientMessage is the tagged union received from a client transport.
type ClientMessage struct {
	Type          ClientMessageType `json:"type"`
	Data          string            `json:"data,omitempty"`
	Cols          int               `json:"cols,omitempty"`
	Rows          int               `json:"rows,omitempty"`
	Delta         int               `json:"delta,omitempty"`
	MinIntervalMs int64             `json:"min_interval_ms,omitempty"`
}

// PtyCommandKind tags a PtyCommand's variant.
type PtyCommandKind int

const (
	PtyData PtyCommandKind = iota
	PtyResize
	PtyScroll
)

// PtyCommand is sent from client transports (via the Input Router) to a
// session's PTY Host.
type PtyCommand struct {
	Kind  PtyCommandKind
	Data  []byte
	Cols  uint16
	Rows  uint16
	Delta int
}

func NewPtyData(data []byte) PtyCommand        { return PtyCommand{Kind: PtyData, Data: data} }
func NewPtyResize(cols, rows uint16) PtyCommand { return PtyCommand{Kind: PtyResize, Cols: cols, Rows: rows} }
func NewPtyScroll(delta int) PtyCommand        { return PtyCommand{Kind: PtyScroll, Delta: delta} }

// TermCommandKind tags a TermCommand's variant.
type TermCommandKind int

const (
	TermData TermCommandKind = iota
	TermResize
	TermScroll
)

// TermCommand mirrors PtyCommand but is internal to the Emulator Loop: Data
// originates from the PTY reader, Resize/Scroll originate from the PTY
// Host's control loop relaying an Input Router request.
type TermCommand struct {
	Kind  TermCommandKind
	Data  []byte
	Cols  uint16
	Rows  uint16
	Delta int
}

func NewTermData(data []byte) TermCommand         { return TermCommand{Kind: TermData, Data: data} }
func NewTermResize(cols, rows uint16) TermCommand { return TermCommand{Kind: TermResize, Cols: cols, Rows: rows} }
func NewTermScroll(delta int) TermCommand         { return TermCommand{Kind: TermScroll, Delta: delta} }
