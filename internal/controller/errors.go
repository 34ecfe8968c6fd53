package controller

import (
	"errors"
	"net/http"

	"github.com/sharetube/embedplayer/internal/lifecycle"
	"github.com/sharetube/embedplayer/internal/repository/player"
	playerService "github.com/sharetube/embedplayer/internal/service/player"
	"github.com/sharetube/embedplayer/pkg/rest"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, player.ErrPlayerNotFound):
		return http.StatusNotFound
	case errors.Is(err, playerService.ErrInvalidVideo),
		errors.Is(err, playerService.ErrInvalidArgument),
		errors.Is(err, playerService.ErrEmptyScript),
		errors.Is(err, lifecycle.ErrUnknownTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (c controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
	} else {
		c.logger.InfoContext(r.Context(), "request rejected", "status", status, "error", err)
	}

	rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
}

// readAndValidate reads the JSON body into dst and validates it, writing the
// error response itself on failure.
func (c controller) readAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := rest.ReadJSON(r, dst); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read json", "error", err)
		rest.WriteJSON(w, http.StatusUnprocessableEntity, rest.Envelope{"error": err.Error()})
		return false
	}

	if validationErrors, ok := c.validate.Validate(dst); !ok {
		c.logger.InfoContext(r.Context(), "validation failed", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return false
	}

	return true
}
