package terminal

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestEmulator(t *testing.T, cols, rows int) (*Emulator, chan TermCommand, *Broadcaster, <-chan ServerMessage) {
	t.Helper()
	b := NewBroadcaster(NewSessionId())
	min := &atomic.Int64{}
	e := NewEmulator(NewSessionId(), cols, rows, min, b)
	queue := make(chan TermCommand, 64)
	_, ch, _ := b.Subscribe()
	go e.Run(queue)
	t.Cleanup(func() { close(queue) })
	return e, queue, b, ch
}

func recvFrame(t *testing.T, ch <-chan ServerMessage) ServerMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for frame")
		return ServerMessage{}
	}
}

func TestHelloWorldFrame(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)
	queue <- NewTermData([]byte("Hi\n"))

	msg := recvFrame(t, ch)
	require.Equal(t, byte('H'), byte(msg.Cells[0].Char))
	require.Equal(t, byte('i'), byte(msg.Cells[1].Char))
	require.True(t, msg.CursorVisible)
	require.Equal(t, uint16(0), msg.CursorCol)
	require.Equal(t, uint16(1), msg.CursorRow)
}

func TestSGRRedThenReset(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)
	queue <- NewTermData([]byte("\x1b[31mA\x1b[0mB"))

	msg := recvFrame(t, ch)
	require.Equal(t, RGB{205, 49, 49}, msg.Cells[0].FG)
	require.Equal(t, 'A', msg.Cells[0].Char)
	require.Equal(t, DefaultFG, msg.Cells[1].FG)
	require.Equal(t, 'B', msg.Cells[1].Char)
}

func TestInverseSwap(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)
	queue <- NewTermData([]byte("\x1b[7mX"))

	msg := recvFrame(t, ch)
	require.Equal(t, DefaultBG, msg.Cells[0].FG)
	require.Equal(t, DefaultFG, msg.Cells[0].BG)
	require.True(t, msg.Cells[0].Inverse)
	require.Equal(t, 'X', msg.Cells[0].Char)
}

func TestResizeProducesExactCellCount(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)
	queue <- NewTermResize(40, 10)

	msg := recvFrame(t, ch)
	require.Equal(t, uint16(40), msg.Cols)
	require.Equal(t, uint16(10), msg.Rows)
	require.Len(t, msg.Cells, 400)
}

func TestCoalescesBurstIntoOneFrame(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)

	for i := 0; i < 20; i++ {
		queue <- NewTermData([]byte("x"))
	}
	// The 20 writes are queued back-to-back; the loop applies the first,
	// drains the rest, and publishes a single frame for the whole burst.
	msg := recvFrame(t, ch)
	require.Equal(t, 'x', msg.Cells[19].Char)

	select {
	case <-ch:
		t.Fatal("expected exactly one frame for the whole burst")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestThrottleEnforcesMinimumInterval(t *testing.T) {
	b := NewBroadcaster(NewSessionId())
	min := &atomic.Int64{}
	min.Store(100)
	e := NewEmulator(NewSessionId(), 80, 24, min, b)
	queue := make(chan TermCommand, 64)
	_, ch, _ := b.Subscribe()
	go e.Run(queue)
	defer close(queue)

	start := time.Now()
	queue <- NewTermData([]byte("a"))
	recvFrame(t, ch)
	queue <- NewTermData([]byte("b"))
	recvFrame(t, ch)
	elapsed := time.Since(start)
	require.GreaterOrEqual(t, elapsed, 100*time.Millisecond)
}
