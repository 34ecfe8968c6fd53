package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sharetube/embedplayer/internal/domain"
)

var ErrUnknownTransition = errors.New("unknown lifecycle transition")

// Transition mirrors the host application's lifecycle states.
type Transition string

const (
	TransitionResumed  Transition = "resumed"
	TransitionInactive Transition = "inactive"
	TransitionPaused   Transition = "paused"
	TransitionDetached Transition = "detached"
)

func ParseTransition(s string) (Transition, error) {
	switch t := Transition(s); t {
	case TransitionResumed, TransitionInactive, TransitionPaused, TransitionDetached:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTransition, s)
	}
}

type iPlayer interface {
	Value() domain.PlayerValue
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
}

// Adapter pauses playback when the host goes to the background and resumes
// it on return, but only if it was playing when it left.
type Adapter struct {
	mu          sync.Mutex
	player      iPlayer
	logger      *slog.Logger
	resumeState domain.PlayerState
}

func NewAdapter(player iPlayer, logger *slog.Logger) *Adapter {
	return &Adapter{
		player: player,
		logger: logger,
	}
}

func (a *Adapter) Handle(ctx context.Context, transition Transition) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch transition {
	case TransitionPaused:
		a.resumeState = a.player.Value().PlayerState
		a.logger.DebugContext(ctx, "host backgrounded", "resume_state", a.resumeState.String())
		if err := a.player.Pause(ctx); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
	case TransitionResumed:
		if a.resumeState != domain.PlayerStatePlaying {
			return nil
		}
		a.resumeState = domain.PlayerStateUnknown
		a.logger.DebugContext(ctx, "host foregrounded, resuming playback")
		if err := a.player.Play(ctx); err != nil {
			return fmt.Errorf("failed to play: %w", err)
		}
	}

	return nil
}
