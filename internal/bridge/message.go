package bridge

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharetube/embedplayer/pkg/validator"
)

var (
	ErrUnknownMessage   = errors.New("unknown bridge message")
	ErrMalformedPayload = errors.New("malformed bridge payload")
)

// Kind is the name a message is sent under by the player page.
type Kind string

const (
	KindReady                 Kind = "Ready"
	KindStateChange           Kind = "StateChange"
	KindPlaybackQualityChange Kind = "PlaybackQualityChange"
	KindPlaybackRateChange    Kind = "PlaybackRateChange"
	KindErrors                Kind = "Errors"
	KindVideoData             Kind = "VideoData"
	KindVideoTime             Kind = "VideoTime"
)

var Kinds = []Kind{
	KindReady,
	KindStateChange,
	KindPlaybackQualityChange,
	KindPlaybackRateChange,
	KindErrors,
	KindVideoData,
	KindVideoTime,
}

type Message interface {
	Kind() Kind
}

type Ready struct{}

type StateChange struct {
	Code int `json:"code"`
}

type PlaybackQualityChange struct {
	Quality string `json:"quality"`
}

type PlaybackRateChange struct {
	Rate float64 `json:"rate" validate:"gt=0"`
}

type Errors struct {
	Code int `json:"code"`
}

type VideoData struct {
	Duration float64 `json:"duration" validate:"gte=0"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	VideoID  string  `json:"videoId"`
}

type VideoTime struct {
	Seconds  float64 `json:"seconds" validate:"gte=0"`
	Buffered float64 `json:"buffered" validate:"gte=0,lte=1"`
}

func (Ready) Kind() Kind                 { return KindReady }
func (StateChange) Kind() Kind           { return KindStateChange }
func (PlaybackQualityChange) Kind() Kind { return KindPlaybackQualityChange }
func (PlaybackRateChange) Kind() Kind    { return KindPlaybackRateChange }
func (Errors) Kind() Kind                { return KindErrors }
func (VideoData) Kind() Kind             { return KindVideoData }
func (VideoTime) Kind() Kind             { return KindVideoTime }

var validate = validator.NewValidator()

// Decode builds a message from its name and the JSON array of arguments the
// page passed to the handler.
func Decode(name string, args json.RawMessage) (Message, error) {
	var (
		msg Message
		err error
	)

	switch Kind(name) {
	case KindReady:
		msg = Ready{}
	case KindStateChange:
		var m StateChange
		err = decodeArgs(args, &m.Code)
		msg = m
	case KindPlaybackQualityChange:
		var m PlaybackQualityChange
		err = decodeArgs(args, &m.Quality)
		msg = m
	case KindPlaybackRateChange:
		var m PlaybackRateChange
		err = decodeArgs(args, &m.Rate)
		msg = m
	case KindErrors:
		var m Errors
		err = decodeArgs(args, &m.Code)
		msg = m
	case KindVideoData:
		var m VideoData
		err = decodeArgs(args, &m)
		msg = m
	case KindVideoTime:
		var m VideoTime
		err = decodeArgs(args, &m.Seconds, &m.Buffered)
		msg = m
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessage, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, name, err)
	}

	if validationErrors, ok := validate.Validate(msg); !ok {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedPayload, name, validationErrors[0])
	}

	return msg, nil
}

func decodeArgs(raw json.RawMessage, targets ...any) error {
	var args []json.RawMessage
	if err := json.Unmarshal(raw, &args); err != nil {
		return err
	}

	if len(args) < len(targets) {
		return fmt.Errorf("expected %d arguments, got %d", len(targets), len(args))
	}

	for i, target := range targets {
		if err := json.Unmarshal(args[i], target); err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
	}

	return nil
}
