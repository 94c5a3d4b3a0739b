package domain

import (
	"context"
	"time"
)

// RSVP records a user's intent to attend an event. At most one row exists per
// (event, user) pair; the storage uniqueness constraint is the final arbiter.
// swagger:model RSVP
type RSVP struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// NewRSVP returns an RSVP for the given pair. ID is set by the repository.
func NewRSVP(eventID, userID string, createdAt time.Time) *RSVP {
	return &RSVP{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
	}
}

// RSVPWithEvent bundles an RSVP with its event details.
type RSVPWithEvent struct {
	RSVP  *RSVP  `json:"rsvp"`
	Event *Event `json:"event"`
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// CreateIfAbsent inserts the RSVP unless the (event, user) pair already
	// exists, in a single atomic statement. Returns created=false with the
	// existing row loaded into rsvp when the pair was already present.
	CreateIfAbsent(ctx context.Context, rsvp *RSVP) (created bool, err error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	ListByUserID(ctx context.Context, userID string) ([]*RSVPWithEvent, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
	CountDistinctUsers(ctx context.Context) (int, error)
}

// RSVPService defines the RSVP action and the caller's RSVP listing.
type RSVPService interface {
	// RSVP records attendance intent exactly once. created is false when the
	// user had already RSVP'd; notifications fire only on the created path.
	RSVP(ctx context.Context, eventID, userID string) (rsvp *RSVP, created bool, err error)
	ListMine(ctx context.Context, userID string) ([]*RSVPWithEvent, error)
}
