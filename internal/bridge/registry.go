package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/sharetube/embedplayer/internal/domain"
)

var (
	// ErrProtocol marks messages that break the player page contract. They are
	// never retried.
	ErrProtocol           = errors.New("bridge protocol violation")
	ErrUnknownPlayerState = fmt.Errorf("%w: unknown player state", ErrProtocol)
)

type iValueStore interface {
	Value() domain.PlayerValue
	Publish(domain.PlayerValue)
}

// Registry applies bridge messages to the player value. It also owns the
// readiness gate: IsReady is only published once both the page load and the
// player's Ready message have been seen.
type Registry struct {
	mu          sync.Mutex
	store       iValueStore
	logger      *slog.Logger
	pageLoaded  bool
	playerReady bool
}

func NewRegistry(store iValueStore, logger *slog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
	}
}

// PageLoaded records that the embedding surface finished loading the page.
func (r *Registry) PageLoaded(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pageLoaded = true
	r.logger.DebugContext(ctx, "page loaded", "player_ready", r.playerReady)
	if r.playerReady {
		r.store.Publish(r.store.Value().WithReady(true))
	}
}

// Reset forgets both readiness signals, e.g. when the page is reloaded.
func (r *Registry) Reset(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.pageLoaded = false
	r.playerReady = false
	if r.store.Value().IsReady {
		r.store.Publish(r.store.Value().WithReady(false))
	}
	r.logger.DebugContext(ctx, "readiness reset")
}

func (r *Registry) Handle(ctx context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	value := r.store.Value()

	switch m := msg.(type) {
	case Ready:
		r.playerReady = true
		if !r.pageLoaded {
			r.logger.DebugContext(ctx, "player ready before page load, deferring")
			return nil
		}
		value = value.WithReady(true)
	case StateChange:
		state, err := parsePlayerState(m.Code)
		if err != nil {
			return err
		}
		value = value.WithPlayerState(state)
	case PlaybackQualityChange:
		value = value.WithPlaybackQuality(m.Quality)
	case PlaybackRateChange:
		value = value.WithPlaybackRate(m.Rate)
	case Errors:
		value = value.WithError(domain.ParsePlayerError(m.Code))
	case VideoData:
		value = value.WithMetaData(domain.MetaData{
			VideoID:  m.VideoID,
			Title:    m.Title,
			Author:   m.Author,
			Duration: millis(m.Duration),
		})
	case VideoTime:
		value = value.WithProgress(millis(m.Seconds), m.Buffered)
	default:
		return fmt.Errorf("%w: %T", ErrUnknownMessage, msg)
	}

	r.store.Publish(value)

	return nil
}

func parsePlayerState(code int) (domain.PlayerState, error) {
	switch code {
	case -1:
		return domain.PlayerStateUnstarted, nil
	case 0:
		return domain.PlayerStateEnded, nil
	case 1:
		return domain.PlayerStatePlaying, nil
	case 2:
		return domain.PlayerStatePaused, nil
	case 3:
		return domain.PlayerStateBuffering, nil
	case 5:
		return domain.PlayerStateCued, nil
	default:
		return domain.PlayerStateUnknown, fmt.Errorf("%w: %d", ErrUnknownPlayerState, code)
	}
}

// millis converts seconds to a duration floored to whole milliseconds.
func millis(seconds float64) time.Duration {
	return time.Duration(math.Floor(seconds*1000)) * time.Millisecond
}
