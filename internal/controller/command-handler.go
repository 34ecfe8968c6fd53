package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sharetube/embedplayer/internal/service/player"
	"github.com/sharetube/embedplayer/pkg/rest"
)

// commandHandler runs one player command. responded is true when the
// handler already wrote the response.
type commandHandler func(w http.ResponseWriter, r *http.Request, playerID string) (responded bool, err error)

type seekToInput struct {
	PositionSec    float64 `json:"position_sec" validate:"gte=0"`
	AllowSeekAhead bool    `json:"allow_seek_ahead"`
}

type videoInput struct {
	VideoID  string  `json:"video_id" validate:"required"`
	StartSec float64 `json:"start_sec" validate:"gte=0"`
	EndSec   float64 `json:"end_sec" validate:"gte=0"`
}

type playlistInput struct {
	VideoIDs []string `json:"video_ids" validate:"required,min=1,dive,required"`
	Index    int      `json:"index" validate:"gte=0"`
	StartSec float64  `json:"start_sec" validate:"gte=0"`
}

type volumeInput struct {
	Volume int `json:"volume" validate:"gte=0,lte=100"`
}

type playbackRateInput struct {
	Rate float64 `json:"rate" validate:"gt=0"`
}

type sizeInput struct {
	Width  float64 `json:"width" validate:"gt=0"`
	Height float64 `json:"height" validate:"gt=0"`
}

type topMarginInput struct {
	Margin string `json:"margin" validate:"required"`
}

type evalInput struct {
	Script string `json:"script" validate:"required"`
}

// simple adapts a command without arguments.
func simple(fn func(ctx context.Context, playerID string) error) commandHandler {
	return func(_ http.ResponseWriter, r *http.Request, playerID string) (bool, error) {
		return false, fn(r.Context(), playerID)
	}
}

// withInput reads and validates the body into T before running fn.
func withInput[T any](c controller, fn func(ctx context.Context, playerID string, input T) error) commandHandler {
	return func(w http.ResponseWriter, r *http.Request, playerID string) (bool, error) {
		var input T
		if !c.readAndValidate(w, r, &input) {
			return true, nil
		}
		return false, fn(r.Context(), playerID, input)
	}
}

func (c controller) getCommands() map[string]commandHandler {
	s := c.playerService

	loadVideo := func(fn func(context.Context, *player.VideoParams) error) commandHandler {
		return withInput(c, func(ctx context.Context, playerID string, input videoInput) error {
			return fn(ctx, &player.VideoParams{
				PlayerID: playerID,
				VideoID:  input.VideoID,
				StartSec: input.StartSec,
				EndSec:   input.EndSec,
			})
		})
	}
	loadPlaylist := func(fn func(context.Context, *player.PlaylistParams) error) commandHandler {
		return withInput(c, func(ctx context.Context, playerID string, input playlistInput) error {
			return fn(ctx, &player.PlaylistParams{
				PlayerID: playerID,
				VideoIDs: input.VideoIDs,
				Index:    input.Index,
				StartSec: input.StartSec,
			})
		})
	}

	return map[string]commandHandler{
		"play":             simple(s.Play),
		"pause":            simple(s.Pause),
		"stop":             simple(s.Stop),
		"mute":             simple(s.Mute),
		"unmute":           simple(s.UnMute),
		"enter-fullscreen": simple(s.EnterFullscreen),
		"exit-fullscreen":  simple(s.ExitFullscreen),
		"load":             loadVideo(s.LoadByID),
		"cue":              loadVideo(s.CueByID),
		"load-playlist":    loadPlaylist(s.LoadPlaylist),
		"cue-playlist":     loadPlaylist(s.CuePlaylist),
		"seek-to": withInput(c, func(ctx context.Context, playerID string, input seekToInput) error {
			return s.SeekTo(ctx, &player.SeekToParams{
				PlayerID:       playerID,
				PositionSec:    input.PositionSec,
				AllowSeekAhead: input.AllowSeekAhead,
			})
		}),
		"set-volume": withInput(c, func(ctx context.Context, playerID string, input volumeInput) error {
			return s.SetVolume(ctx, playerID, input.Volume)
		}),
		"set-playback-rate": withInput(c, func(ctx context.Context, playerID string, input playbackRateInput) error {
			return s.SetPlaybackRate(ctx, playerID, input.Rate)
		}),
		"set-size": withInput(c, func(ctx context.Context, playerID string, input sizeInput) error {
			return s.SetSize(ctx, playerID, input.Width, input.Height)
		}),
		"set-top-margin": withInput(c, func(ctx context.Context, playerID string, input topMarginInput) error {
			return s.SetTopMargin(ctx, playerID, input.Margin)
		}),
		"eval": withInput(c, func(ctx context.Context, playerID string, input evalInput) error {
			return s.Eval(ctx, playerID, input.Script)
		}),
	}
}

func (c controller) runCommand(w http.ResponseWriter, r *http.Request) {
	command := chi.URLParam(r, "command")
	handler, ok := c.commands[command]
	if !ok {
		rest.WriteJSON(w, http.StatusNotFound, rest.Envelope{"error": "unknown command " + command})
		return
	}

	responded, err := handler(w, r, chi.URLParam(r, "player-id"))
	if responded {
		return
	}
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
