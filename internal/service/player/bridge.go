package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sharetube/embedplayer/internal/bridge"
	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/navigation"
	"github.com/sharetube/embedplayer/internal/playerpage"
	"github.com/sharetube/embedplayer/internal/surface"
)

// AttachSurface binds the surface that just loaded the page. A new page load
// starts readiness over; commands queue until the player is ready again.
func (s service) AttachSurface(ctx context.Context, playerID string, sf surface.Surface) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	inst.attach(ctx, sf)
	inst.logger.DebugContext(ctx, "surface attached")

	return nil
}

// DetachSurface is a no-op when sf has already been replaced.
func (s service) DetachSurface(ctx context.Context, playerID string, sf surface.Surface) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	inst.detach(sf)
	inst.logger.DebugContext(ctx, "surface detached")

	return nil
}

// PageLoaded handles the surface's load-complete event.
func (s service) PageLoaded(ctx context.Context, playerID string) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	wasReady := inst.store.Value().IsReady
	inst.registry.PageLoaded(ctx)

	return s.openOnReady(ctx, inst, wasReady)
}

// HandleBridgeMessage decodes and applies one message sent by the page.
func (s service) HandleBridgeMessage(ctx context.Context, playerID, name string, args json.RawMessage) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	msg, err := bridge.Decode(name, args)
	if err != nil {
		return fmt.Errorf("failed to decode bridge message: %w", err)
	}

	wasReady := inst.store.Value().IsReady
	if err := inst.registry.Handle(ctx, msg); err != nil {
		return fmt.Errorf("failed to handle %s: %w", msg.Kind(), err)
	}

	return s.openOnReady(ctx, inst, wasReady)
}

func (s service) openOnReady(ctx context.Context, inst *Instance, wasReady bool) error {
	if wasReady || !inst.store.Value().IsReady {
		return nil
	}

	if err := inst.open(ctx); err != nil {
		if errors.Is(err, surface.ErrDetached) {
			inst.logger.DebugContext(ctx, "ready without surface, commands stay queued")
			return nil
		}
		return fmt.Errorf("failed to open command channel: %w", err)
	}

	inst.logger.DebugContext(ctx, "command channel open")
	return nil
}

type NavigateParams struct {
	PlayerID  string
	URL       string
	UserAgent string
}

type NavigateResponse struct {
	Decision navigation.Decision
	Platform navigation.Platform
}

// Navigate decides a navigation request raised by the page and carries out
// its follow-up: loading the clicked video or handing the URL off.
func (s service) Navigate(ctx context.Context, params *NavigateParams) (NavigateResponse, error) {
	inst, err := s.getInstance(params.PlayerID)
	if err != nil {
		return NavigateResponse{}, err
	}

	platform := navigation.DetectPlatform(params.UserAgent)
	decision := navigation.Decide(params.URL, platform)
	inst.logger.DebugContext(ctx, "navigation decided",
		"url", params.URL,
		"platform", platform.String(),
		"action", decision.Action.String(),
		"category", decision.Category,
	)

	if videoID, ok := decision.LoadVideoID.Get(); ok {
		script, err := playerpage.LoadByID(playerpage.VideoSettings{VideoID: videoID})
		if err != nil {
			return NavigateResponse{}, fmt.Errorf("failed to build load command: %w", err)
		}
		if err := inst.channel.Send(ctx, script); err != nil {
			return NavigateResponse{}, fmt.Errorf("failed to load video: %w", err)
		}
	}

	if externalURL, ok := decision.ExternalURL.Get(); ok {
		if err := s.opener.Open(ctx, externalURL); err != nil {
			return NavigateResponse{}, fmt.Errorf("failed to open external url: %w", err)
		}
	}

	return NavigateResponse{
		Decision: decision,
		Platform: platform,
	}, nil
}

func (s service) HandleLifecycle(ctx context.Context, playerID string, transition lifecycle.Transition) error {
	inst, err := s.getInstance(playerID)
	if err != nil {
		return err
	}

	if err := inst.lifecycle.Handle(ctx, transition); err != nil {
		return fmt.Errorf("failed to handle lifecycle transition: %w", err)
	}

	return nil
}
