package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// RSVPResponse is the data payload for POST /events/{eventID}/rsvps.
type RSVPResponse struct {
	RSVP    *domain.RSVP `json:"rsvp"`
	Message string       `json:"message"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// Create godoc
// @Summary RSVP to an event
// @Description Requires the participant role. Repeating the call for the same event returns 200 with the existing RSVP; only the first call sends notifications.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "Already RSVP'd; data contains the existing RSVP"
// @Success 201 {object} helpers.APIResponse "data contains the new RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	rsvp, created, err := c.Service.RSVP(r.Context(), eventID, userID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "rsvp failed")
		}
		return
	}

	if !created {
		helpers.WriteJSONSuccess(w, http.StatusOK, RSVPResponse{
			RSVP:    rsvp,
			Message: "You have already RSVP'd to this event.",
		})
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, RSVPResponse{
		RSVP:    rsvp,
		Message: "RSVP confirmed.",
	})
}

// ListMine godoc
// @Summary List the authenticated user's RSVPs
// @Description Each entry includes the event details, ordered by event date and time.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the RSVPs with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps [get]
func (c *RSVPController) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListMine(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "listing rsvps failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}
