package domain

import (
	"context"
	"errors"
	"time"
)

// ErrDuplicateCategory is returned when a category name is already taken.
var ErrDuplicateCategory = errors.New("category name already exists")

// Category groups events under a unique name.
// swagger:model Category
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryRepository defines the interface for category storage.
// Deleting a category nulls the category reference on dependent events
// (enforced by the schema, not application code).
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
}

// CategoryService defines category CRUD. Mutations require the organizer or
// admin role.
type CategoryService interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, actorID string, category *Category) error
	Update(ctx context.Context, actorID string, category *Category) error
	Delete(ctx context.Context, actorID, id string) error
}
