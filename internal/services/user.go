package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

type userService struct {
	userRepo   domain.UserRepository
	hasher     domain.PasswordHasher
	mediaStore domain.MediaStore
}

// NewUserService creates a UserService for profile and participant management.
func NewUserService(userRepo domain.UserRepository, hasher domain.PasswordHasher, mediaStore domain.MediaStore) domain.UserService {
	return &userService{
		userRepo:   userRepo,
		hasher:     hasher,
		mediaStore: mediaStore,
	}
}

func (s *userService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, user *domain.User) error {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)
	user.PhoneNumber = strings.TrimSpace(user.PhoneNumber)
	if !emailRegexp.MatchString(user.Email) {
		return fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if user.PhoneNumber != "" && !phoneRegexp.MatchString(user.PhoneNumber) {
		return fmt.Errorf("%w: phone number must match +999999999 (7-15 digits)", domain.ErrInvalidInput)
	}
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

func (s *userService) SaveProfileImage(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (string, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("get user: %w", err)
	}
	key := fmt.Sprintf("users/user_%s/%s%s", user.ID, uuid.NewString(), safeExt(filename))
	stored, err := s.mediaStore.Save(ctx, key, contentType, r, size)
	if err != nil {
		return "", fmt.Errorf("store profile image: %w", err)
	}
	user.ProfileImage = stored
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return "", fmt.Errorf("update user: %w", err)
	}
	return stored, nil
}

// ListParticipants returns all participant accounts. Admin only.
func (s *userService) ListParticipants(ctx context.Context, actorID string) ([]*domain.User, error) {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.userRepo.ListByRole(ctx, domain.RoleParticipant)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return users, nil
}

// CreateParticipant creates a participant account on behalf of an admin.
// Admin-created accounts are active immediately and get no activation email.
func (s *userService) CreateParticipant(ctx context.Context, actorID string, p *domain.User, password string) (*domain.User, error) {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if !usernameRegexp.MatchString(p.Username) {
		return nil, fmt.Errorf("%w: username must be 3-30 characters (letters, digits, . _ -)", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(p.Email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
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
	p.PasswordHash = hash
	p.Salt = salt
	p.IsActive = true
	p.IsSuperuser = false
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.userRepo.Create(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrDuplicateUsername) {
			return nil, err
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, p.ID, domain.RoleParticipant); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	p.Roles = []domain.Role{domain.RoleParticipant}
	return p, nil
}

func (s *userService) UpdateParticipant(ctx context.Context, actorID string, p *domain.User) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleAdmin); err != nil {
		return err
	}
	return s.UpdateProfile(ctx, p)
}

func (s *userService) DeleteParticipant(ctx context.Context, actorID, participantID string) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, participantID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// safeExt returns the lowercased file extension, or "" when it looks odd.
func safeExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	return ""
}
