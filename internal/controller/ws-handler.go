package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/sharetube/embedplayer/internal/bridge"
	"github.com/sharetube/embedplayer/pkg/ctxlogger"
	"github.com/sharetube/embedplayer/pkg/wsrouter"
)

// loadStop is the surface event the page sends once it finished loading.
const loadStop = "LoadStop"

func (c controller) getBridgeRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdMw(), c.wsLoggerMw())

	mux.Handle(loadStop, c.handleLoadStop)
	for _, kind := range bridge.Kinds {
		mux.Handle(string(kind), c.handleBridgeMessage)
	}
	mux.NotFound(c.handleBridgeMessage)

	mux.OnError(func(ctx context.Context, messageType string, err error) {
		if errors.Is(err, bridge.ErrProtocol) || errors.Is(err, bridge.ErrUnknownMessage) || errors.Is(err, bridge.ErrMalformedPayload) ||
			errors.Is(err, wsrouter.ErrMalformedMessage) {
			c.logger.WarnContext(ctx, "bridge message dropped", "message_type", messageType, "error", err)
			return
		}
		c.logger.ErrorContext(ctx, "failed to handle bridge message", "message_type", messageType, "error", err)
	})

	return mux
}

func (c controller) handleLoadStop(ctx context.Context, _ *websocket.Conn, _ json.RawMessage) error {
	return c.playerService.PageLoaded(ctx, c.getPlayerIDFromCtx(ctx))
}

func (c controller) handleBridgeMessage(ctx context.Context, _ *websocket.Conn, payload json.RawMessage) error {
	if len(payload) == 0 || string(payload) == "null" {
		payload = json.RawMessage("[]")
	}

	return c.playerService.HandleBridgeMessage(ctx, c.getPlayerIDFromCtx(ctx), wsrouter.GetMessageTypeFromCtx(ctx), payload)
}

// bridge serves the websocket of a loaded player page. The page is the
// player's surface for as long as the connection lives.
func (c controller) bridge(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "player-id")
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("player_id", playerID))
	ctx = context.WithValue(ctx, playerIDCtxKey, playerID)

	// closes when the player is removed
	values, cancel, err := c.playerService.Subscribe(ctx, playerID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	sf := newWSSurface(conn, c.writeTimeout)
	if err := c.playerService.AttachSurface(ctx, playerID, sf); err != nil {
		c.logger.WarnContext(ctx, "failed to attach surface", "error", err)
		return
	}
	defer func() {
		if err := c.playerService.DetachSurface(context.WithoutCancel(ctx), playerID, sf); err != nil {
			c.logger.DebugContext(ctx, "failed to detach surface", "error", err)
		}
	}()
	c.logger.InfoContext(ctx, "bridge connected")

	go func() {
		for range values {
		}
		conn.Close()
	}()

	err = c.getBridgeRouter().ServeConn(ctx, conn)
	c.logger.InfoContext(ctx, "bridge disconnected", "reason", err)
}

// values streams every published value of the player, starting with the
// current one, until the client goes away or the player is removed.
func (c controller) values(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "player-id")
	ctx := ctxlogger.AppendCtx(r.Context(), slog.String("player_id", playerID))

	values, cancel, err := c.playerService.Subscribe(ctx, playerID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	defer cancel()

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()
				return
			}
		}
	}()

	for value := range values {
		conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
		if err := conn.WriteJSON(&Output{
			Type:    "PLAYER_VALUE_UPDATED",
			Payload: value,
		}); err != nil {
			c.logger.DebugContext(ctx, "failed to write value", "error", err)
			return
		}
	}

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "player removed"),
		time.Now().Add(time.Second),
	)
}
