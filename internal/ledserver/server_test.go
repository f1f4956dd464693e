package ledserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/ws2812-spi/ws2812"
)

// fakeStrip captures the last frame written.
type fakeStrip struct {
	frames [][]ws2812.Color
}

func (f *fakeStrip) Write(colors []ws2812.Color) error {
	frame := make([]ws2812.Color, len(colors))
	copy(frame, colors)
	f.frames = append(f.frames, frame)
	return nil
}

func (f *fakeStrip) Halt() error {
	return f.Write(make([]ws2812.Color, 2))
}

func newTestServer(t *testing.T, strip Strip, channels int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	New(strip, 2, channels).Routes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestFrameFeed(t *testing.T) {
	strip := &fakeStrip{}
	ts := newTestServer(t, strip, 3)
	conn := dial(t, ts, "/frames")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{
		0x11, 0x22, 0x33,
		0x44, 0x55, 0x66,
	}))

	require.Eventually(t, func() bool { return len(strip.frames) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []ws2812.Color{
		{R: 0x11, G: 0x22, B: 0x33},
		{R: 0x44, G: 0x55, B: 0x66},
	}, strip.frames[0])
}

func TestFrameFeedRGBW(t *testing.T) {
	strip := &fakeStrip{}
	ts := newTestServer(t, strip, 4)
	conn := dial(t, ts, "/frames")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
	}))

	require.Eventually(t, func() bool { return len(strip.frames) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, ws2812.Color{R: 5, G: 6, B: 7, W: 8}, strip.frames[0][1])
}

func TestBadFrameLengthRejected(t *testing.T) {
	strip := &fakeStrip{}
	ts := newTestServer(t, strip, 3)
	conn := dial(t, ts, "/frames")

	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte{1, 2, 3}))

	// The server answers with a text diagnostic and drops the frame.
	mt, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	assert.Contains(t, string(msg), "bad frame length")
	assert.Empty(t, strip.frames)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &fakeStrip{}, 3)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.EqualValues(t, 2, body["pixels"])
	assert.EqualValues(t, 3, body["channels"])
}
