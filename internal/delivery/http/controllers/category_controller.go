package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// CategoryRequest is the request body for category create and update.
type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements helpers.Validator.
func (c CategoryRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	return errs
}

type CategoryController struct {
	Logger  *slog.Logger
	Service domain.CategoryService
}

func NewCategoryController(logger *slog.Logger, svc domain.CategoryService) *CategoryController {
	return &CategoryController{
		Logger:  logger,
		Service: svc,
	}
}

// List godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the categories"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [get]
func (c *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	categories, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "listing categories failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, categories)
}

// Get godoc
// @Summary Get a category
// @Tags categories
// @Produce json
// @Param categoryID path string true "Category ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [get]
func (c *CategoryController) Get(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}
	category, err := c.Service.GetByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "category not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "getting category failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// Create godoc
// @Summary Create a category
// @Description Requires the organizer or admin role. Names are unique.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.CategoryRequest true "Category fields"
// @Success 201 {object} helpers.APIResponse "data contains the created category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories [post]
func (c *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category := &domain.Category{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.Service.Create(r.Context(), userID, category); err != nil {
		c.writeMutationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, category)
}

// Update godoc
// @Summary Update a category
// @Description Requires the organizer or admin role.
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Param body body controllers.CategoryRequest true "Category fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated category"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [put]
func (c *CategoryController) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}
	var req CategoryRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	category := &domain.Category{
		ID:          categoryID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := c.Service.Update(r.Context(), userID, category); err != nil {
		c.writeMutationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, category)
}

// Delete godoc
// @Summary Delete a category
// @Description Requires the organizer or admin role. Events in the category keep existing without a category.
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Param categoryID path string true "Category ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /categories/{categoryID} [delete]
func (c *CategoryController) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	categoryID := r.PathValue("categoryID")
	if !uuidRegex.MatchString(categoryID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid categoryID")
		return
	}
	if err := c.Service.Delete(r.Context(), userID, categoryID); err != nil {
		c.writeMutationError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "Category deleted."})
}

func (c *CategoryController) writeMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "category not found")
	case errors.Is(err, domain.ErrDuplicateCategory):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "category name already exists")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "request failed")
	}
}
