package hub

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T) (*Hub, context.CancelFunc, *httptest.Server) {
	t.Helper()
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)

	srv := httptest.NewServer(h)
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return h, cancel, srv
}

func readLine(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	return strings.TrimRight(line, "\n")
}

func TestHubStreamsBroadcasts(t *testing.T) {
	h, _, srv := newTestHub(t)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	assert.Equal(t, ": connected", readLine(t, r))
	assert.Equal(t, "", readLine(t, r))

	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	h.Broadcast(map[string]string{"type": "student_created"})
	assert.Equal(t, `data: {"type":"student_created"}`, readLine(t, r))
}

func TestHubClosesStreamsOnShutdown(t *testing.T) {
	h, cancel, srv := newTestHub(t)

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	readLine(t, r)
	require.Eventually(t, func() bool { return h.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	_, err = io.ReadAll(r)
	assert.NoError(t, err)
	assert.Equal(t, 0, h.ClientCount())
}

func TestHubRejectsAfterShutdown(t *testing.T) {
	h := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h.Run(ctx)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBroadcastDropsWhenFull(t *testing.T) {
	h := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	for i := 0; i < cap(h.broadcast)+10; i++ {
		h.Broadcast(i)
	}
	assert.Equal(t, cap(h.broadcast), len(h.broadcast))
}
