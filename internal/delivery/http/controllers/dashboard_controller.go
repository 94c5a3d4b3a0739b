package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService) *DashboardController {
	return &DashboardController{
		Logger:  logger,
		Service: svc,
	}
}

// Stats godoc
// @Summary Dashboard summary counts
// @Description Counts are shaped by the caller's highest role: admins also see the total user count, participants also see their own RSVP count.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the stats"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard [get]
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	stats, err := c.Service.Stats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "loading dashboard failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, stats)
}

// Feed godoc
// @Summary Dashboard event feed
// @Description Returns up to 50 events for the requested scope. "today" is evaluated against the server's local date at request time.
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param type query string false "Scope: all, upcoming, past, or today (default all)"
// @Success 200 {object} helpers.APIResponse "data contains the feed items"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard/data [get]
func (c *DashboardController) Feed(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	scope, ok := domain.ParseDateScope(r.URL.Query().Get("type"))
	if !ok {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "type must be one of all, upcoming, past, today")
		return
	}
	items, err := c.Service.Feed(r.Context(), scope)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "loading dashboard data failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}
