package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr         error
	signUpUser        *domain.User
	activateErr       error
	loginErr          error
	loginToken        string
	loginUser         *domain.User
	changePasswordErr error
	lastSignUpEmail   string
	lastActivateUID   string
	lastActivateToken string
	lastLoginUsername string
	lastChangeUserID  string
}

func (f *fakeAuthService) SignUp(ctx context.Context, username, email, password, firstName, lastName, phone string) (*domain.User, error) {
	f.lastSignUpEmail = email
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	if f.signUpUser != nil {
		return f.signUpUser, nil
	}
	return &domain.User{ID: "user-created", Username: username, Email: email}, nil
}

func (f *fakeAuthService) Activate(ctx context.Context, uid, token string) error {
	f.lastActivateUID = uid
	f.lastActivateToken = token
	return f.activateErr
}

func (f *fakeAuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	f.lastLoginUsername = username
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.loginToken, f.loginUser, nil
}

func (f *fakeAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	f.lastChangeUserID = userID
	return f.changePasswordErr
}

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing username",
			body:           `{"email":"alice@example.com","password":"password123"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "username is required",
		},
		{
			name:           "invalid email format",
			body:           `{"username":"alice","email":"not-an-email","password":"password123"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "short password",
			body:           `{"username":"alice","email":"alice@example.com","password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "duplicate username",
			body:           `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			fakeErr:        domain.ErrDuplicateUsername,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "username",
		},
		{
			name:           "duplicate email",
			body:           `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "email",
		},
		{
			name:           "service error",
			body:           `{"username":"alice","email":"alice@example.com","password":"password123"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "signup failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{signUpErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error)
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Contains(t, dataMap["message"], "activate")
				assert.NotNil(t, dataMap["user"])
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestAuthController_Activate(t *testing.T) {
	tests := []struct {
		name           string
		uid            string
		token          string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			uid:        "dXNlci0xMjM",
			token:      "abc123-deadbeef",
			wantStatus: http.StatusOK,
		},
		{
			name:           "missing uid",
			uid:            "",
			token:          "abc123-deadbeef",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "missing uid or token",
		},
		{
			name:           "missing token",
			uid:            "dXNlci0xMjM",
			token:          "",
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "missing uid or token",
		},
		{
			name:           "invalid or expired link",
			uid:            "dXNlci0xMjM",
			token:          "stale-token",
			fakeErr:        domain.ErrInvalidActivation,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: domain.ErrInvalidActivation.Error(),
		},
		{
			name:           "service error",
			uid:            "dXNlci0xMjM",
			token:          "abc123-deadbeef",
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "activation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{activateErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "http://test/auth/activate/x/y", nil)
			req.SetPathValue("uid", tt.uid)
			req.SetPathValue("token", tt.token)
			rr := httptest.NewRecorder()

			ctrl.Activate(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, tt.uid, fake.lastActivateUID)
				assert.Equal(t, tt.token, fake.lastActivateToken)
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	activeUser := &domain.User{ID: "user-123", Username: "alice", IsActive: true}

	tests := []struct {
		name           string
		body           string
		fakeErr        error
		fakeToken      string
		fakeUser       *domain.User
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"username":"alice","password":"password123"}`,
			fakeToken:  "jwt-token",
			fakeUser:   activeUser,
			wantStatus: http.StatusOK,
		},
		{
			name:           "missing password",
			body:           `{"username":"alice"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password is required",
		},
		{
			name:           "bad credentials",
			body:           `{"username":"alice","password":"wrong"}`,
			fakeErr:        domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid credentials",
		},
		{
			name:           "account not activated",
			body:           `{"username":"alice","password":"password123"}`,
			fakeErr:        domain.ErrNotActivated,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "not activated",
		},
		{
			name:           "service error",
			body:           `{"username":"alice","password":"password123"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "login failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{loginErr: tt.fakeErr, loginToken: tt.fakeToken, loginUser: tt.fakeUser}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var data LoginResponse
				require.NoError(t, json.Unmarshal(dataBytes, &data))
				assert.Equal(t, "jwt-token", data.Token)
				assert.Equal(t, "Bearer", data.TokenType)
				require.NotNil(t, data.User)
				assert.Equal(t, "user-123", data.User.ID)
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}

func TestAuthController_Logout(t *testing.T) {
	t.Run("success acknowledges token discard", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{})
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/logout", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.Logout(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		dataMap, ok := envelope.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, dataMap["message"], "Discard")
	})

	t.Run("no user in context", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{})
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/logout", nil)
		rr := httptest.NewRecorder()

		ctrl.Logout(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthController_ChangePassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		noUserContext  bool
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"old_password":"oldpass123","new_password":"newpass123"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "no user in context",
			body:           `{"old_password":"oldpass123","new_password":"newpass123"}`,
			noUserContext:  true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "short new password",
			body:           `{"old_password":"oldpass123","new_password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "wrong old password",
			body:           `{"old_password":"wrong","new_password":"newpass123"}`,
			fakeErr:        domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "old password is incorrect",
		},
		{
			name:           "service error",
			body:           `{"old_password":"oldpass123","new_password":"newpass123"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "password change failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{changePasswordErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/password", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if !tt.noUserContext {
				req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			}
			rr := httptest.NewRecorder()

			ctrl.ChangePassword(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "user-123", fake.lastChangeUserID)
			} else if tt.wantBodySubstr != "" {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
			}
		})
	}
}
