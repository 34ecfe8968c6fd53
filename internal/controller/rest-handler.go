package controller

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/service/player"
	"github.com/sharetube/embedplayer/pkg/rest"
)

type createPlayerRequest struct {
	VideoID         string `json:"video_id" validate:"required"`
	AutoPlay        *bool  `json:"auto_play"`
	Mute            bool   `json:"mute"`
	Loop            bool   `json:"loop"`
	ShowControls    *bool  `json:"show_controls"`
	EnableCaption   *bool  `json:"enable_caption"`
	CaptionLanguage string `json:"caption_language" validate:"omitempty,min=2,max=8"`
	StartAt         int    `json:"start_at" validate:"gte=0"`
	EndAt           int    `json:"end_at" validate:"gte=0"`
}

func (c controller) createPlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if !c.readAndValidate(w, r, &req) {
		return
	}

	resp, err := c.playerService.CreatePlayer(r.Context(), &player.CreatePlayerParams{
		VideoID:         req.VideoID,
		AutoPlay:        lo.FromPtrOr(req.AutoPlay, true),
		Mute:            req.Mute,
		Loop:            req.Loop,
		ShowControls:    lo.FromPtrOr(req.ShowControls, true),
		EnableCaption:   lo.FromPtrOr(req.EnableCaption, true),
		CaptionLanguage: lo.Ternary(req.CaptionLanguage == "", "en", req.CaptionLanguage),
		StartAt:         req.StartAt,
		EndAt:           req.EndAt,
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, rest.Envelope{"data": resp})
}

func (c controller) listPlayers(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.playerService.ListPlayers(r.Context())})
}

func (c controller) getPlayer(w http.ResponseWriter, r *http.Request) {
	value, err := c.playerService.GetValue(r.Context(), chi.URLParam(r, "player-id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": value})
}

func (c controller) removePlayer(w http.ResponseWriter, r *http.Request) {
	if err := c.playerService.RemovePlayer(r.Context(), chi.URLParam(r, "player-id")); err != nil {
		c.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) getPage(w http.ResponseWriter, r *http.Request) {
	var page bytes.Buffer
	if err := c.playerService.RenderPage(r.Context(), chi.URLParam(r, "player-id"), &page); err != nil {
		c.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(page.Bytes())
}

func (c controller) getSurfaceSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := c.playerService.GetSurfaceSettings(r.Context(), chi.URLParam(r, "player-id"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": settings})
}

type navigateRequest struct {
	URL string `json:"url" validate:"required"`
	// UserAgent of the embedding surface. Defaults to the request's.
	UserAgent string `json:"user_agent"`
}

type navigateResponse struct {
	Action      string            `json:"action"`
	Category    string            `json:"category"`
	Platform    string            `json:"platform"`
	LoadVideoID mo.Option[string] `json:"load_video_id"`
	ExternalURL mo.Option[string] `json:"external_url"`
}

func (c controller) navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	if !c.readAndValidate(w, r, &req) {
		return
	}

	resp, err := c.playerService.Navigate(r.Context(), &player.NavigateParams{
		PlayerID:  chi.URLParam(r, "player-id"),
		URL:       req.URL,
		UserAgent: lo.Ternary(req.UserAgent == "", r.UserAgent(), req.UserAgent),
	})
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": navigateResponse{
		Action:      resp.Decision.Action.String(),
		Category:    resp.Decision.Category,
		Platform:    resp.Platform.String(),
		LoadVideoID: resp.Decision.LoadVideoID,
		ExternalURL: resp.Decision.ExternalURL,
	}})
}

type lifecycleRequest struct {
	State string `json:"state" validate:"required,oneof=resumed inactive paused detached"`
}

func (c controller) handleLifecycle(w http.ResponseWriter, r *http.Request) {
	var req lifecycleRequest
	if !c.readAndValidate(w, r, &req) {
		return
	}

	transition, err := lifecycle.ParseTransition(req.State)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	if err := c.playerService.HandleLifecycle(r.Context(), chi.URLParam(r, "player-id"), transition); err != nil {
		c.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
