package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventhub/internal/domain"
)

const (
	minPasswordLen       = 8
	activationExpiryDays = 3
)

var (
	emailRegexp    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	usernameRegexp = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,30}$`)
	phoneRegexp    = regexp.MustCompile(`^\+?\d{7,15}$`)
)

type authService struct {
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	tokenExpiry  time.Duration
	activation   domain.ActivationTokenGenerator
	emailService domain.EmailService
	baseURL      string
}

// NewAuthService creates an AuthService. baseURL is the public URL activation
// links are built against.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenExpiry time.Duration,
	activation domain.ActivationTokenGenerator,
	emailService domain.EmailService,
	baseURL string,
) domain.AuthService {
	return &authService{
		userRepo:     userRepo,
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		tokenExpiry:  tokenExpiry,
		activation:   activation,
		emailService: emailService,
		baseURL:      strings.TrimSuffix(baseURL, "/"),
	}
}

// SignUp creates an inactive account with the participant role and sends the
// activation email. The email send is part of the signup contract: an account
// nobody can activate is useless, so a failed send fails the signup.
func (s *authService) SignUp(ctx context.Context, username, email, password, firstName, lastName, phone string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if !usernameRegexp.MatchString(username) {
		return nil, fmt.Errorf("%w: username must be 3-30 characters (letters, digits, . _ -)", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	phone = strings.TrimSpace(phone)
	if phone != "" && !phoneRegexp.MatchString(phone) {
		return nil, fmt.Errorf("%w: phone number must match +999999999 (7-15 digits)", domain.ErrInvalidInput)
	}

	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		FirstName:    strings.TrimSpace(firstName),
		LastName:     strings.TrimSpace(lastName),
		PhoneNumber:  phone,
		IsActive:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, domain.RoleParticipant); err != nil {
		return nil, fmt.Errorf("failed to assign role: %w", err)
	}
	user.Roles = []domain.Role{domain.RoleParticipant}

	token, err := s.activation.Make(user)
	if err != nil {
		return nil, fmt.Errorf("failed to make activation token: %w", err)
	}
	uid := base64.RawURLEncoding.EncodeToString([]byte(user.ID))
	data := &domain.ActivationEmailData{
		Email:         user.Email,
		FirstName:     user.FirstName,
		Username:      user.Username,
		ActivationURL: fmt.Sprintf("%s/auth/activate/%s/%s", s.baseURL, uid, token),
		ExpiresInDays: activationExpiryDays,
	}
	if err := s.emailService.SendActivation(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to send activation email: %w", err)
	}
	return user, nil
}

// Activate verifies the uid/token pair from an activation link and flips the
// account active. The token is bound to the account's pre-activation state,
// so a second use of the same link fails verification.
func (s *authService) Activate(ctx context.Context, uid, token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return domain.ErrInvalidActivation
	}
	user, err := s.userRepo.GetByID(ctx, string(raw))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidActivation
		}
		return fmt.Errorf("get user: %w", err)
	}
	if !s.activation.Check(user, token) {
		return domain.ErrInvalidActivation
	}
	if user.IsActive {
		return nil
	}
	if err := s.userRepo.Activate(ctx, user.ID); err != nil {
		return fmt.Errorf("activate user: %w", err)
	}
	return nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", nil, domain.ErrNotActivated
	}
	roleCodes := make([]string, len(user.Roles))
	for i, r := range user.Roles {
		roleCodes[i] = string(r)
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Email, roleCodes, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, oldPassword); err != nil {
		return domain.ErrInvalidCredentials
	}
	salt, err := s.hasher.GenerateSalt()
	if err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}
	hash, err := s.hasher.Hash(salt, newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash, salt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
