package wsrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

var ErrMalformedMessage = errors.New("malformed message")

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, conn *websocket.Conn, payload json.RawMessage) error

// ErrorHandlerFunc receives handler failures. The connection keeps being
// served afterwards.
type ErrorHandlerFunc func(ctx context.Context, messageType string, err error)

type Middleware func(next HandlerFunc) HandlerFunc

type WSRouter struct {
	routes      map[string]HandlerFunc
	notFound    HandlerFunc
	onError     ErrorHandlerFunc
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{routes: make(map[string]HandlerFunc)}
}

func (r *WSRouter) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// NotFound sets the handler for message types nothing was registered for.
func (r *WSRouter) NotFound(handler HandlerFunc) {
	r.notFound = handler
}

// Use appends middlewares wrapping every routed handler, the first one
// outermost.
func (r *WSRouter) Use(middlewares ...Middleware) {
	r.middlewares = append(r.middlewares, middlewares...)
}

func (r *WSRouter) wrap(handler HandlerFunc) HandlerFunc {
	for i := len(r.middlewares) - 1; i >= 0; i-- {
		handler = r.middlewares[i](handler)
	}
	return handler
}

func (r *WSRouter) OnError(handler ErrorHandlerFunc) {
	r.onError = handler
}

// ServeConn reads messages until the connection fails and routes each one.
// Messages are handled one at a time in arrival order. A frame that is not a
// message is reported to the error handler and skipped.
func (r *WSRouter) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var msg message
		if err := json.Unmarshal(data, &msg); err != nil {
			if r.onError != nil {
				r.onError(ctx, "", fmt.Errorf("%w: %w", ErrMalformedMessage, err))
			}
			continue
		}

		handler, exists := r.routes[msg.Type]
		if !exists {
			handler = r.notFound
		}
		if handler == nil {
			continue
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if err := r.wrap(handler)(msgCtx, conn, msg.Payload); err != nil && r.onError != nil {
			r.onError(msgCtx, msg.Type, err)
		}
	}
}
