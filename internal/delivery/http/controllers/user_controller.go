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

// UpdateProfileRequest is the request body for PUT /me. Omitted pointer
// fields keep their current values.
type UpdateProfileRequest struct {
	Email       *string `json:"email"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
}

// Validate implements helpers.Validator.
func (u UpdateProfileRequest) Validate() []string {
	var errs []string
	if u.Email != nil && !emailRegex.MatchString(*u.Email) {
		errs = append(errs, "invalid email")
	}
	return errs
}

// ParticipantRequest is the request body for the admin participant endpoints.
// Password is required on create and ignored on update.
type ParticipantRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password,omitempty"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

// Validate implements helpers.Validator.
func (p ParticipantRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(p.Username) == "" {
		errs = append(errs, "username is required")
	}
	if !emailRegex.MatchString(p.Email) {
		errs = append(errs, "invalid email")
	}
	return errs
}

func (p ParticipantRequest) toDomain() *domain.User {
	return &domain.User{
		Username:    p.Username,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		PhoneNumber: p.PhoneNumber,
	}
}

type UserController struct {
	Logger  *slog.Logger
	Service domain.UserService
}

func NewUserController(logger *slog.Logger, svc domain.UserService) *UserController {
	return &UserController{
		Logger:  logger,
		Service: svc,
	}
}

// Me godoc
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the user"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [get]
func (c *UserController) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "getting profile failed")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Update the authenticated user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains the updated user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me [put]
func (c *UserController) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req UpdateProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.GetByID(r.Context(), userID)
	if err != nil {
		c.writeUserError(w, r, err)
		return
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if err := c.Service.UpdateProfile(r.Context(), user); err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, user)
}

// UploadProfileImage godoc
// @Summary Upload the authenticated user's profile image
// @Description Multipart field name: image.
// @Tags users
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} helpers.APIResponse "data contains the stored image key"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /me/image [post]
func (c *UserController) UploadProfileImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image file is required")
		return
	}
	defer file.Close()

	key, err := c.Service.SaveProfileImage(r.Context(), userID,
		header.Filename, header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"profile_image": key})
}

// ListParticipants godoc
// @Summary List participant accounts
// @Description Requires the admin role.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the participants"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants [get]
func (c *UserController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participants, err := c.Service.ListParticipants(r.Context(), userID)
	if err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participants)
}

// CreateParticipant godoc
// @Summary Create a participant account
// @Description Requires the admin role. The account is active immediately; no activation email is sent.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body controllers.ParticipantRequest true "Participant fields"
// @Success 201 {object} helpers.APIResponse "data contains the created participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants [post]
func (c *UserController) CreateParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req ParticipantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant, err := c.Service.CreateParticipant(r.Context(), userID, req.toDomain(), req.Password)
	if err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, participant)
}

// UpdateParticipant godoc
// @Summary Update a participant account
// @Description Requires the admin role. Password is not changed here.
// @Tags participants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param participantID path string true "Participant ID (UUID)"
// @Param body body controllers.ParticipantRequest true "Participant fields"
// @Success 200 {object} helpers.APIResponse "data contains the updated participant"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID} [put]
func (c *UserController) UpdateParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID := r.PathValue("participantID")
	if !uuidRegex.MatchString(participantID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid participantID")
		return
	}
	var req ParticipantRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	participant := req.toDomain()
	participant.ID = participantID
	if err := c.Service.UpdateParticipant(r.Context(), userID, participant); err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, participant)
}

// DeleteParticipant godoc
// @Summary Delete a participant account
// @Description Requires the admin role. The participant's RSVPs are removed by cascade.
// @Tags participants
// @Produce json
// @Security BearerAuth
// @Param participantID path string true "Participant ID (UUID)"
// @Success 200 {object} helpers.APIResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /participants/{participantID} [delete]
func (c *UserController) DeleteParticipant(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	participantID := r.PathValue("participantID")
	if !uuidRegex.MatchString(participantID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid participantID")
		return
	}
	if err := c.Service.DeleteParticipant(r.Context(), userID, participantID); err != nil {
		c.writeUserError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"message": "Participant deleted."})
}

func (c *UserController) writeUserError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
	case errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "email already in use")
	case errors.Is(err, domain.ErrDuplicateUsername):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "username already taken")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "request failed")
	}
}
