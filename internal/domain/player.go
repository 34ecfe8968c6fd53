package domain

import (
	"encoding/json"
	"time"
)

type PlayerState int

const (
	PlayerStateUnknown PlayerState = iota
	PlayerStateUnstarted
	PlayerStateEnded
	PlayerStatePlaying
	PlayerStatePaused
	PlayerStateBuffering
	PlayerStateCued
)

func (s PlayerState) String() string {
	switch s {
	case PlayerStateUnstarted:
		return "unstarted"
	case PlayerStateEnded:
		return "ended"
	case PlayerStatePlaying:
		return "playing"
	case PlayerStatePaused:
		return "paused"
	case PlayerStateBuffering:
		return "buffering"
	case PlayerStateCued:
		return "cued"
	default:
		return "unknown"
	}
}

func (s PlayerState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// PlayerError classifies the error codes reported by the IFrame player.
type PlayerError int

const (
	PlayerErrorNone PlayerError = iota
	PlayerErrorInvalidParam
	PlayerErrorHTML5
	PlayerErrorVideoNotFound
	PlayerErrorNotEmbeddable
	PlayerErrorUnknown
)

// ParsePlayerError maps a raw player error code. Codes outside the known set
// are PlayerErrorUnknown.
func ParsePlayerError(code int) PlayerError {
	switch code {
	case 0:
		return PlayerErrorNone
	case 2:
		return PlayerErrorInvalidParam
	case 5:
		return PlayerErrorHTML5
	case 100:
		return PlayerErrorVideoNotFound
	case 101, 150:
		return PlayerErrorNotEmbeddable
	default:
		return PlayerErrorUnknown
	}
}

func (e PlayerError) String() string {
	switch e {
	case PlayerErrorNone:
		return "none"
	case PlayerErrorInvalidParam:
		return "invalid_param"
	case PlayerErrorHTML5:
		return "html5_error"
	case PlayerErrorVideoNotFound:
		return "video_not_found"
	case PlayerErrorNotEmbeddable:
		return "not_embeddable"
	default:
		return "unknown"
	}
}

func (e PlayerError) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

type MetaData struct {
	VideoID  string        `json:"video_id"`
	Title    string        `json:"title"`
	Author   string        `json:"author"`
	Duration time.Duration `json:"-"`
}

func (m MetaData) MarshalJSON() ([]byte, error) {
	type alias MetaData
	return json.Marshal(struct {
		alias
		DurationMs int64 `json:"duration_ms"`
	}{alias: alias(m), DurationMs: m.Duration.Milliseconds()})
}

// PlayerValue is an immutable snapshot of the embedded player. The With
// helpers return modified copies; a published value is never changed.
type PlayerValue struct {
	IsReady         bool          `json:"is_ready"`
	PlayerState     PlayerState   `json:"player_state"`
	HasPlayed       bool          `json:"has_played"`
	Error           PlayerError   `json:"error"`
	PlaybackQuality string        `json:"playback_quality"`
	PlaybackRate    float64       `json:"playback_rate"`
	Position        time.Duration `json:"-"`
	Buffered        float64       `json:"buffered"`
	MetaData        MetaData      `json:"meta_data"`
	IsFullScreen    bool          `json:"is_full_screen"`
	IsMuted         bool          `json:"is_muted"`
	Volume          int           `json:"volume"`
}

func NewPlayerValue() PlayerValue {
	return PlayerValue{
		PlayerState:  PlayerStateUnknown,
		PlaybackRate: 1,
		Volume:       100,
	}
}

func (v PlayerValue) MarshalJSON() ([]byte, error) {
	type alias PlayerValue
	return json.Marshal(struct {
		alias
		PositionMs int64 `json:"position_ms"`
	}{alias: alias(v), PositionMs: v.Position.Milliseconds()})
}

func (v PlayerValue) WithReady(isReady bool) PlayerValue {
	v.IsReady = isReady
	return v
}

// WithPlayerState sets the state. Playing also marks the video as played and
// clears any previous error.
func (v PlayerValue) WithPlayerState(state PlayerState) PlayerValue {
	v.PlayerState = state
	if state == PlayerStatePlaying {
		v.HasPlayed = true
		v.Error = PlayerErrorNone
	}
	return v
}

func (v PlayerValue) WithError(err PlayerError) PlayerValue {
	v.Error = err
	return v
}

func (v PlayerValue) WithPlaybackQuality(quality string) PlayerValue {
	v.PlaybackQuality = quality
	return v
}

func (v PlayerValue) WithPlaybackRate(rate float64) PlayerValue {
	v.PlaybackRate = rate
	return v
}

func (v PlayerValue) WithProgress(position time.Duration, buffered float64) PlayerValue {
	v.Position = position
	v.Buffered = buffered
	return v
}

func (v PlayerValue) WithMetaData(metaData MetaData) PlayerValue {
	v.MetaData = metaData
	return v
}

func (v PlayerValue) WithFullScreen(isFullScreen bool) PlayerValue {
	v.IsFullScreen = isFullScreen
	return v
}

func (v PlayerValue) WithMuted(isMuted bool) PlayerValue {
	v.IsMuted = isMuted
	return v
}

func (v PlayerValue) WithVolume(volume int) PlayerValue {
	v.Volume = volume
	return v
}
