package controller

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type evalPayload struct {
	Script string `json:"script"`
}

// wsSurface is the player page at the other end of a bridge websocket.
// Commands are written as EVAL frames; the page evaluates their script.
type wsSurface struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
}

func newWSSurface(conn *websocket.Conn, writeTimeout time.Duration) *wsSurface {
	return &wsSurface{
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (s *wsSurface) Eval(ctx context.Context, script string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := time.Now().Add(s.writeTimeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}

	return s.conn.WriteJSON(&Output{
		Type:    "EVAL",
		Payload: evalPayload{Script: script},
	})
}
