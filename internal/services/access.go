package services

import (
	"context"
	"errors"
	"fmt"

	"eventhub/internal/domain"
)

// authorize loads the acting user and checks the role predicate: superusers
// always pass, otherwise the user's role set must intersect the allowed set.
// The check reads the store on every call so role changes take effect
// immediately, not at next token issue.
func authorize(ctx context.Context, users domain.UserRepository, userID string, allowed ...domain.Role) (*domain.User, error) {
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.HasAnyRole(allowed...) {
		return nil, domain.ErrForbidden
	}
	return user, nil
}
