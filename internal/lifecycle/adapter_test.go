package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlayer struct {
	value domain.PlayerValue
	calls []string
}

func (p *fakePlayer) Value() domain.PlayerValue { return p.value }

func (p *fakePlayer) Play(context.Context) error {
	p.calls = append(p.calls, "play")
	p.value = p.value.WithPlayerState(domain.PlayerStatePlaying)
	return nil
}

func (p *fakePlayer) Pause(context.Context) error {
	p.calls = append(p.calls, "pause")
	p.value = p.value.WithPlayerState(domain.PlayerStatePaused)
	return nil
}

func newAdapter(state domain.PlayerState) (*Adapter, *fakePlayer) {
	p := &fakePlayer{value: domain.NewPlayerValue().WithPlayerState(state)}
	return NewAdapter(p, slog.New(slog.NewTextHandler(io.Discard, nil))), p
}

func TestBackgroundWhilePlaying(t *testing.T) {
	ctx := context.Background()
	a, p := newAdapter(domain.PlayerStatePlaying)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	assert.Equal(t, []string{"pause"}, p.calls)

	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Equal(t, []string{"pause", "play"}, p.calls)

	// play is requested exactly once
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Equal(t, []string{"pause", "play"}, p.calls)
}

func TestBackgroundWhilePaused(t *testing.T) {
	ctx := context.Background()
	a, p := newAdapter(domain.PlayerStatePaused)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Equal(t, []string{"pause"}, p.calls)
}

func TestBackgroundTwiceKeepsLatestState(t *testing.T) {
	ctx := context.Background()
	a, p := newAdapter(domain.PlayerStatePlaying)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	require.Equal(t, domain.PlayerStatePaused, p.value.PlayerState)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Equal(t, []string{"pause", "pause"}, p.calls)
}

func TestBackgroundAfterUserPauseDoesNotResume(t *testing.T) {
	ctx := context.Background()
	a, p := newAdapter(domain.PlayerStatePlaying)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	p.value = p.value.WithPlayerState(domain.PlayerStatePaused)

	require.NoError(t, a.Handle(ctx, TransitionPaused))
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Equal(t, []string{"pause", "play", "pause"}, p.calls)
}

func TestOtherTransitionsAreNoops(t *testing.T) {
	ctx := context.Background()
	a, p := newAdapter(domain.PlayerStatePlaying)

	require.NoError(t, a.Handle(ctx, TransitionInactive))
	require.NoError(t, a.Handle(ctx, TransitionDetached))
	require.NoError(t, a.Handle(ctx, TransitionResumed))
	assert.Empty(t, p.calls)
}

func TestParseTransition(t *testing.T) {
	tr, err := ParseTransition("paused")
	require.NoError(t, err)
	assert.Equal(t, TransitionPaused, tr)

	_, err = ParseTransition("hidden")
	assert.ErrorIs(t, err, ErrUnknownTransition)
}
