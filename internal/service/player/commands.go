package player

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharetube/embedplayer/internal/domain"
	"github.com/sharetube/embedplayer/internal/playerpage"
)

// send issues a command script to the player's page. Before the player is
// ready the script is queued and delivered in order once it is.
func (s service) send(ctx context.Context, playerID, script string) (*Instance, error) {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return nil, err
	}

	inst.logger.DebugContext(ctx, "sending command", "script", script)
	if err := inst.channel.Send(ctx, script); err != nil {
		return nil, fmt.Errorf("failed to send command: %w", err)
	}

	return inst, nil
}

// command reports a script that cannot be built as an invalid argument.
func command(script string, err error) (string, error) {
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return script, nil
}

func (s service) Play(ctx context.Context, playerID string) error {
	_, err := s.send(ctx, playerID, playerpage.Play())
	return err
}

func (s service) Pause(ctx context.Context, playerID string) error {
	_, err := s.send(ctx, playerID, playerpage.Pause())
	return err
}

func (s service) Stop(ctx context.Context, playerID string) error {
	_, err := s.send(ctx, playerID, playerpage.Stop())
	return err
}

type SeekToParams struct {
	PlayerID       string
	PositionSec    float64
	AllowSeekAhead bool
}

func (s service) SeekTo(ctx context.Context, params *SeekToParams) error {
	if params.PositionSec < 0 {
		return fmt.Errorf("%w: negative position %v", ErrInvalidArgument, params.PositionSec)
	}

	script, err := command(playerpage.SeekTo(params.PositionSec, params.AllowSeekAhead))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, params.PlayerID, script)
	return err
}

type VideoParams struct {
	PlayerID string
	// VideoID is a bare video id or a link to the video.
	VideoID  string
	StartSec float64
	EndSec   float64
}

func (p VideoParams) settings() (playerpage.VideoSettings, error) {
	videoID, ok := convertVideoID(p.VideoID)
	if !ok {
		return playerpage.VideoSettings{}, fmt.Errorf("%w: %q", ErrInvalidVideo, p.VideoID)
	}
	if p.StartSec < 0 || p.EndSec < 0 || (p.EndSec > 0 && p.EndSec <= p.StartSec) {
		return playerpage.VideoSettings{}, fmt.Errorf("%w: start %v end %v", ErrInvalidArgument, p.StartSec, p.EndSec)
	}

	return playerpage.VideoSettings{
		VideoID:      videoID,
		StartSeconds: p.StartSec,
		EndSeconds:   p.EndSec,
	}, nil
}

func (s service) LoadByID(ctx context.Context, params *VideoParams) error {
	settings, err := params.settings()
	if err != nil {
		return err
	}

	script, err := command(playerpage.LoadByID(settings))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, params.PlayerID, script)
	return err
}

func (s service) CueByID(ctx context.Context, params *VideoParams) error {
	settings, err := params.settings()
	if err != nil {
		return err
	}

	script, err := command(playerpage.CueByID(settings))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, params.PlayerID, script)
	return err
}

type PlaylistParams struct {
	PlayerID string
	VideoIDs []string
	Index    int
	StartSec float64
}

func (p PlaylistParams) videoIDs() ([]string, error) {
	if len(p.VideoIDs) == 0 {
		return nil, fmt.Errorf("%w: empty playlist", ErrInvalidArgument)
	}
	if p.Index < 0 || p.Index >= len(p.VideoIDs) || p.StartSec < 0 {
		return nil, fmt.Errorf("%w: index %d start %v", ErrInvalidArgument, p.Index, p.StartSec)
	}

	ids := make([]string, 0, len(p.VideoIDs))
	for _, raw := range p.VideoIDs {
		videoID, ok := convertVideoID(raw)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrInvalidVideo, raw)
		}
		ids = append(ids, videoID)
	}

	return ids, nil
}

func (s service) LoadPlaylist(ctx context.Context, params *PlaylistParams) error {
	ids, err := params.videoIDs()
	if err != nil {
		return err
	}

	script, err := command(playerpage.LoadPlaylist(ids, params.Index, params.StartSec))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, params.PlayerID, script)
	return err
}

func (s service) CuePlaylist(ctx context.Context, params *PlaylistParams) error {
	ids, err := params.videoIDs()
	if err != nil {
		return err
	}

	script, err := command(playerpage.CuePlaylist(ids, params.Index, params.StartSec))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, params.PlayerID, script)
	return err
}

// The player reports neither mute, volume nor fullscreen changes, so the
// commands below also update the value themselves.

func (s service) Mute(ctx context.Context, playerID string) error {
	return s.sendAndUpdate(ctx, playerID, playerpage.Mute(), func(v domain.PlayerValue) domain.PlayerValue {
		return v.WithMuted(true)
	})
}

func (s service) UnMute(ctx context.Context, playerID string) error {
	return s.sendAndUpdate(ctx, playerID, playerpage.UnMute(), func(v domain.PlayerValue) domain.PlayerValue {
		return v.WithMuted(false)
	})
}

func (s service) SetVolume(ctx context.Context, playerID string, volume int) error {
	if volume < 0 || volume > 100 {
		return fmt.Errorf("%w: volume %d", ErrInvalidArgument, volume)
	}

	script, err := command(playerpage.SetVolume(volume))
	if err != nil {
		return err
	}

	return s.sendAndUpdate(ctx, playerID, script, func(v domain.PlayerValue) domain.PlayerValue {
		return v.WithVolume(volume)
	})
}

func (s service) SetPlaybackRate(ctx context.Context, playerID string, rate float64) error {
	if rate <= 0 {
		return fmt.Errorf("%w: playback rate %v", ErrInvalidArgument, rate)
	}

	script, err := command(playerpage.SetPlaybackRate(rate))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, playerID, script)
	return err
}

func (s service) SetSize(ctx context.Context, playerID string, width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: size %vx%v", ErrInvalidArgument, width, height)
	}

	script, err := command(playerpage.SetSize(width, height))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, playerID, script)
	return err
}

func (s service) SetTopMargin(ctx context.Context, playerID, margin string) error {
	if strings.ContainsAny(margin, ";{}") {
		return fmt.Errorf("%w: margin %q", ErrInvalidArgument, margin)
	}

	script, err := command(playerpage.SetTopMargin(margin))
	if err != nil {
		return err
	}

	_, err = s.send(ctx, playerID, script)
	return err
}

func (s service) EnterFullscreen(ctx context.Context, playerID string) error {
	return s.sendAndUpdate(ctx, playerID, playerpage.Fullscreen(true), func(v domain.PlayerValue) domain.PlayerValue {
		return v.WithFullScreen(true)
	})
}

func (s service) ExitFullscreen(ctx context.Context, playerID string) error {
	return s.sendAndUpdate(ctx, playerID, playerpage.Fullscreen(false), func(v domain.PlayerValue) domain.PlayerValue {
		return v.WithFullScreen(false)
	})
}

// Eval runs an arbitrary script in the player's page.
func (s service) Eval(ctx context.Context, playerID, script string) error {
	if strings.TrimSpace(script) == "" {
		return ErrEmptyScript
	}

	_, err := s.send(ctx, playerID, script)
	return err
}

func (s service) sendAndUpdate(ctx context.Context, playerID, script string, fn func(domain.PlayerValue) domain.PlayerValue) error {
	inst, err := s.send(ctx, playerID, script)
	if err != nil {
		return err
	}

	inst.store.Update(fn)
	return nil
}
