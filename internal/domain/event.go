package domain

import (
	"context"
	"io"
	"time"
)

// Event represents a scheduled event. Date is "2006-01-02" and StartTime is
// "15:04"; default ordering is (date, start_time) ascending.
// swagger:model Event
type Event struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Date              string    `json:"date"`
	StartTime         string    `json:"time"`
	Location          string    `json:"location"`
	CategoryID        *string   `json:"category_id"`
	CategoryName      *string   `json:"category"`
	Image             *string   `json:"image"`
	ParticipantsCount int       `json:"participants_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// EventFilter holds the optional event-listing filters; zero values mean
// "no filter". All present filters combine with AND.
type EventFilter struct {
	Query      string // case-insensitive substring on name or location
	CategoryID string
	StartDate  string // inclusive lower bound, "2006-01-02"
	EndDate    string // inclusive upper bound, "2006-01-02"
}

// DateScope selects events relative to a reference date.
type DateScope string

const (
	ScopeAll      DateScope = "all"
	ScopeUpcoming DateScope = "upcoming"
	ScopePast     DateScope = "past"
	ScopeToday    DateScope = "today"
)

// ParseDateScope maps a query value to a DateScope; empty means ScopeAll.
func ParseDateScope(s string) (DateScope, bool) {
	switch DateScope(s) {
	case ScopeUpcoming, ScopePast, ScopeToday:
		return DateScope(s), true
	case ScopeAll, "":
		return ScopeAll, true
	}
	return "", false
}

// EventRepository defines the interface for event storage. List and GetByID
// annotate each event with its distinct participant count.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, error)
	Count(ctx context.Context, filter EventFilter) (int, error)
	Update(ctx context.Context, event *Event) error
	SetImage(ctx context.Context, eventID, image string) error
	Delete(ctx context.Context, id string) error
	ListByDateScope(ctx context.Context, scope DateScope, today string, limit int) ([]*Event, error)
	CountByDateScope(ctx context.Context, scope DateScope, today string) (int, error)
}

// EventService defines event listing and role-gated CRUD.
type EventService interface {
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	Create(ctx context.Context, actorID string, event *Event) error
	Update(ctx context.Context, actorID string, event *Event) error
	Delete(ctx context.Context, actorID, id string) error
	SaveEventImage(ctx context.Context, actorID, eventID, filename, contentType string, size int64, r io.Reader) (string, error)
}
