package terminal

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatBinary, ParseFormat("bincode"))
	assert.Equal(t, FormatBinary, ParseFormat("bin"))
	assert.Equal(t, FormatBinary, ParseFormat("binary"))
	assert.Equal(t, FormatJSON, ParseFormat(""))
	assert.Equal(t, FormatJSON, ParseFormat("json"))
}

func sampleFrame() ServerMessage {
	return NewFrameMessage(Frame{
		Cols: 2, Rows: 1, CursorCol: 1, CursorRow: 0, CursorVisible: true,
		Cells: []Cell{
			{Char: 'A', FG: RGB{205, 49, 49}, BG: DefaultBG, Bold: true},
			{Char: 'B', FG: DefaultFG, BG: DefaultBG, Inverse: true},
		},
	})
}

func TestJSONRoundTrip(t *testing.T) {
	msg := sampleFrame()
	data, err := EncodeServerMessage(msg, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"frame"`)

	var decoded ServerMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, msg, decoded)
}

func TestCBORRoundTrip(t *testing.T) {
	msg := sampleFrame()
	data, err := EncodeServerMessage(msg, FormatBinary)
	require.NoError(t, err)

	var decoded ServerMessage
	require.NoError(t, cbor.Unmarshal(data, &decoded))
	assert.Equal(t, msg, decoded)

	clientMsg := ClientMessage{Type: ClientResize, Cols: 100, Rows: 40}
	encodedClient, err := cbor.Marshal(clientMsg)
	require.NoError(t, err)
	decodedClient, err := DecodeClientMessage(encodedClient, FormatBinary)
	require.NoError(t, err)
	assert.Equal(t, clientMsg, decodedClient)
}

func TestResizeThenBuildYieldsExactCellCount(t *testing.T) {
	_, queue, _, ch := newTestEmulator(t, 80, 24)
	queue <- NewTermResize(13, 7)
	msg := recvFrame(t, ch)
	assert.Len(t, msg.Cells, 13*7)
}

func TestAttachReplaysLastFrame(t *testing.T) {
	r := NewRegistry(0)
	s, err := r.GetOrCreate(NewSessionId())
	require.NoError(t, err)

	// Drive the emulator to publish a frame.
	s.Submit(NewPtyData([]byte("hello\n")))
	time.Sleep(200 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	incoming := make(chan ClientMessage)
	received := make(chan ServerMessage, 8)
	go Attach(ctx, s, incoming, func(msg ServerMessage) error {
		received <- msg
		return nil
	})

	select {
	case msg := <-received:
		assert.Equal(t, FrameMessage, msg.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("expected the last frame to be replayed on attach")
	}

	cancel()
}
