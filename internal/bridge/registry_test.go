package bridge

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	*store.Store
	published int
}

func (s *countingStore) Publish(v domain.PlayerValue) {
	s.published++
	s.Store.Publish(v)
}

func newTestRegistry() (*Registry, *countingStore) {
	s := &countingStore{Store: store.New(domain.NewPlayerValue())}
	return NewRegistry(s, slog.New(slog.NewTextHandler(io.Discard, nil))), s
}

func TestStateChangeMapping(t *testing.T) {
	cases := map[int]domain.PlayerState{
		-1: domain.PlayerStateUnstarted,
		0:  domain.PlayerStateEnded,
		1:  domain.PlayerStatePlaying,
		2:  domain.PlayerStatePaused,
		3:  domain.PlayerStateBuffering,
		5:  domain.PlayerStateCued,
	}

	for code, want := range cases {
		r, s := newTestRegistry()
		s.Publish(s.Value().WithError(domain.PlayerErrorHTML5))

		require.NoError(t, r.Handle(context.Background(), StateChange{Code: code}))
		got := s.Value()
		assert.Equal(t, want, got.PlayerState, "code %d", code)
		if code == 1 {
			assert.True(t, got.HasPlayed)
			assert.Equal(t, domain.PlayerErrorNone, got.Error)
		} else {
			assert.False(t, got.HasPlayed, "code %d", code)
			assert.Equal(t, domain.PlayerErrorHTML5, got.Error, "code %d", code)
		}
	}
}

func TestUnknownStateChangeNeverPublishes(t *testing.T) {
	for _, code := range []int{4, 6, -2, 42} {
		r, s := newTestRegistry()
		before := s.Value()

		err := r.Handle(context.Background(), StateChange{Code: code})
		assert.ErrorIs(t, err, ErrUnknownPlayerState)
		assert.ErrorIs(t, err, ErrProtocol)
		assert.Equal(t, 0, s.published)
		assert.Equal(t, before, s.Value())
	}
}

func TestReadinessGate(t *testing.T) {
	ctx := context.Background()

	t.Run("ready then page load", func(t *testing.T) {
		r, s := newTestRegistry()
		require.NoError(t, r.Handle(ctx, Ready{}))
		assert.False(t, s.Value().IsReady)
		assert.Equal(t, 0, s.published)

		r.PageLoaded(ctx)
		assert.True(t, s.Value().IsReady)
		assert.Equal(t, 1, s.published)
	})

	t.Run("page load then ready", func(t *testing.T) {
		r, s := newTestRegistry()
		r.PageLoaded(ctx)
		assert.False(t, s.Value().IsReady)

		require.NoError(t, r.Handle(ctx, Ready{}))
		assert.True(t, s.Value().IsReady)
	})

	t.Run("reset", func(t *testing.T) {
		r, s := newTestRegistry()
		r.PageLoaded(ctx)
		require.NoError(t, r.Handle(ctx, Ready{}))
		r.Reset(ctx)
		assert.False(t, s.Value().IsReady)

		r.PageLoaded(ctx)
		assert.False(t, s.Value().IsReady)
	})
}

func TestVideoTime(t *testing.T) {
	r, s := newTestRegistry()

	require.NoError(t, r.Handle(context.Background(), VideoTime{Seconds: 12.345, Buffered: 0.5}))
	assert.Equal(t, 12345*time.Millisecond, s.Value().Position)
	assert.Equal(t, 0.5, s.Value().Buffered)

	require.NoError(t, r.Handle(context.Background(), VideoTime{Seconds: 1.0009, Buffered: 0.6}))
	assert.Equal(t, 1000*time.Millisecond, s.Value().Position)
}

func TestOtherTransforms(t *testing.T) {
	ctx := context.Background()
	r, s := newTestRegistry()

	require.NoError(t, r.Handle(ctx, PlaybackQualityChange{Quality: "hd1080"}))
	require.NoError(t, r.Handle(ctx, PlaybackRateChange{Rate: 1.25}))
	require.NoError(t, r.Handle(ctx, Errors{Code: 100}))
	require.NoError(t, r.Handle(ctx, VideoData{Duration: 90.5, Title: "Title", Author: "Author", VideoID: "abc123"}))

	v := s.Value()
	assert.Equal(t, "hd1080", v.PlaybackQuality)
	assert.Equal(t, 1.25, v.PlaybackRate)
	assert.Equal(t, domain.PlayerErrorVideoNotFound, v.Error)
	assert.Equal(t, domain.MetaData{VideoID: "abc123", Title: "Title", Author: "Author", Duration: 90500 * time.Millisecond}, v.MetaData)
	assert.Equal(t, 4, s.published)

	require.NoError(t, r.Handle(ctx, Errors{Code: 9999}))
	assert.Equal(t, domain.PlayerErrorUnknown, s.Value().Error)
}
