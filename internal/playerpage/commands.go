package playerpage

import (
	"fmt"
	"strconv"
	"strings"
)

// The functions below build the command scripts understood by the page
// produced by Script.

func Play() string   { return "play()" }
func Pause() string  { return "pause()" }
func Stop() string   { return "stop()" }
func Mute() string   { return "mute()" }
func UnMute() string { return "unMute()" }

type VideoSettings struct {
	VideoID      string  `json:"videoId"`
	StartSeconds float64 `json:"startSeconds,omitempty"`
	EndSeconds   float64 `json:"endSeconds,omitempty"`
}

func LoadByID(settings VideoSettings) (string, error) {
	return call("loadById", settings)
}

func CueByID(settings VideoSettings) (string, error) {
	return call("cueById", settings)
}

func LoadPlaylist(videoIDs []string, index int, startAt float64) (string, error) {
	return call("loadPlaylist", videoIDs, index, startAt)
}

func CuePlaylist(videoIDs []string, index int, startAt float64) (string, error) {
	return call("cuePlaylist", videoIDs, index, startAt)
}

func SetVolume(volume int) (string, error) {
	return call("setVolume", volume)
}

func SeekTo(position float64, allowSeekAhead bool) (string, error) {
	return call("seekTo", position, allowSeekAhead)
}

func SetSize(width, height float64) (string, error) {
	return call("setSize", width, height)
}

func SetPlaybackRate(rate float64) (string, error) {
	return call("setPlaybackRate", rate)
}

func SetTopMargin(margin string) (string, error) {
	return call("setTopMargin", margin)
}

// Fullscreen is the styling command sent on entering or leaving fullscreen.
func Fullscreen(enabled bool) string {
	return "setFullscreen(" + strconv.FormatBool(enabled) + ")"
}

func call(fn string, args ...any) (string, error) {
	encoded := make([]string, 0, len(args))
	for _, arg := range args {
		lit, err := jsLiteral(arg)
		if err != nil {
			return "", fmt.Errorf("failed to encode %s argument: %w", fn, err)
		}
		encoded = append(encoded, lit)
	}

	return fn + "(" + strings.Join(encoded, ", ") + ")", nil
}
