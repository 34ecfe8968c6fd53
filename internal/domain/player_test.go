package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePlayerError(t *testing.T) {
	cases := map[int]PlayerError{
		0:   PlayerErrorNone,
		2:   PlayerErrorInvalidParam,
		5:   PlayerErrorHTML5,
		100: PlayerErrorVideoNotFound,
		101: PlayerErrorNotEmbeddable,
		150: PlayerErrorNotEmbeddable,
		7:   PlayerErrorUnknown,
		-3:  PlayerErrorUnknown,
	}
	for code, want := range cases {
		assert.Equal(t, want, ParsePlayerError(code), "code %d", code)
	}
}

func TestWithPlayerStatePlayingClearsError(t *testing.T) {
	v := NewPlayerValue().WithError(PlayerErrorVideoNotFound)

	paused := v.WithPlayerState(PlayerStatePaused)
	assert.Equal(t, PlayerErrorVideoNotFound, paused.Error)
	assert.False(t, paused.HasPlayed)

	playing := v.WithPlayerState(PlayerStatePlaying)
	assert.Equal(t, PlayerErrorNone, playing.Error)
	assert.True(t, playing.HasPlayed)

	// the original snapshot is untouched
	assert.Equal(t, PlayerStateUnknown, v.PlayerState)
}

func TestPlayerValueJSON(t *testing.T) {
	v := NewPlayerValue().
		WithPlayerState(PlayerStatePlaying).
		WithProgress(12345*time.Millisecond, 0.5).
		WithMetaData(MetaData{VideoID: "abc123", Title: "t", Author: "a", Duration: 90 * time.Second})

	data, err := json.Marshal(v)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "playing", out["player_state"])
	assert.Equal(t, "none", out["error"])
	assert.EqualValues(t, 12345, out["position_ms"])
	assert.EqualValues(t, 0.5, out["buffered"])
	assert.EqualValues(t, 1, out["playback_rate"])

	meta := out["meta_data"].(map[string]any)
	assert.Equal(t, "abc123", meta["video_id"])
	assert.EqualValues(t, 90000, meta["duration_ms"])
}
