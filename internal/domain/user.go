package domain

import (
	"context"
	"errors"
	"io"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateUsername = errors.New("username already taken")
)

// Role is one of the closed set of application roles.
type Role string

const (
	RoleParticipant Role = "participant"
	RoleOrganizer   Role = "organizer"
	RoleAdmin       Role = "admin"
)

// ParseRole maps a role name to a Role. Unknown names return false.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleParticipant, RoleOrganizer, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// User represents a registered account.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PhoneNumber  string    `json:"phone_number"`
	ProfileImage string    `json:"profile_image"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasAnyRole reports whether the user may perform an action restricted to the
// given roles. Superusers always pass; otherwise the user's role set must
// intersect the allowed set.
func (u *User) HasAnyRole(allowed ...Role) bool {
	if u.IsSuperuser {
		return true
	}
	for _, have := range u.Roles {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}

// PasswordHasher handles salt generation, hashing, and verification.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues session tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID, email string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a session token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// ActivationTokenGenerator makes and checks the signed, time-windowed tokens
// embedded in account activation links. A token is bound to the user's current
// state, so activating the account or changing the password invalidates it.
type ActivationTokenGenerator interface {
	Make(user *User) (string, error)
	Check(user *User, token string) bool
}

// UserRepository defines the interface for user storage.
// GetByID and GetByEmail return users with Roles populated.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error
	Activate(ctx context.Context, userID string) error
	Delete(ctx context.Context, userID string) error
	AssignRole(ctx context.Context, userID string, role Role) error
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	CountAll(ctx context.Context) (int, error)
}

// AuthService defines signup, activation, and login.
type AuthService interface {
	SignUp(ctx context.Context, username, email, password, firstName, lastName, phone string) (*User, error)
	Activate(ctx context.Context, uid, token string) error
	Login(ctx context.Context, username, password string) (token string, user *User, err error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

// UserService defines profile and participant-management operations.
type UserService interface {
	GetByID(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, user *User) error
	SaveProfileImage(ctx context.Context, userID, filename, contentType string, size int64, r io.Reader) (string, error)
	ListParticipants(ctx context.Context, actorID string) ([]*User, error)
	CreateParticipant(ctx context.Context, actorID string, participant *User, password string) (*User, error)
	UpdateParticipant(ctx context.Context, actorID string, participant *User) error
	DeleteParticipant(ctx context.Context, actorID, participantID string) error
}
