package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeConnRoutesInOrder(t *testing.T) {
	var (
		mu       sync.Mutex
		received []string
		failures []string
		wrapped  []string
		done     = make(chan struct{})
	)

	router := New()
	router.Use(func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error {
			mu.Lock()
			wrapped = append(wrapped, GetMessageTypeFromCtx(ctx))
			mu.Unlock()
			return next(ctx, conn, payload)
		}
	})
	router.Handle("A", func(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, GetMessageTypeFromCtx(ctx)+":"+string(payload))
		return nil
	})
	router.Handle("FAIL", func(context.Context, *websocket.Conn, json.RawMessage) error {
		return errors.New("boom")
	})
	router.NotFound(func(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, "unknown:"+GetMessageTypeFromCtx(ctx))
		return nil
	})
	router.OnError(func(_ context.Context, messageType string, err error) {
		mu.Lock()
		defer mu.Unlock()
		if errors.Is(err, ErrMalformedMessage) {
			failures = append(failures, "malformed")
			return
		}
		failures = append(failures, messageType+":"+err.Error())
	})

	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		router.ServeConn(context.Background(), conn)
		close(done)
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "A", "payload": []int{1}}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "FAIL"}))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":`)))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":1}`)))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "B"}))
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "A", "payload": []int{2}}))
	conn.Close()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not stop after close")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"A:[1]", "unknown:B", "A:[2]"}, received)
	assert.Equal(t, []string{"FAIL:boom", "malformed", "malformed"}, failures)
	assert.Equal(t, []string{"A", "FAIL", "B", "A"}, wrapped)
}
