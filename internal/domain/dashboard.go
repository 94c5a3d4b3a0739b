package domain

import "context"

// DashboardStats are the per-role summary counts. TotalParticipants is the
// distinct RSVP'ing user count (admins see TotalUsers as well); MyRSVPCount
// is populated for participants only.
// swagger:model DashboardStats
type DashboardStats struct {
	Role              Role `json:"role"`
	TotalEvents       int  `json:"total_events"`
	UpcomingEvents    int  `json:"upcoming_events"`
	PastEvents        int  `json:"past_events"`
	TotalParticipants int  `json:"total_participants"`
	TotalUsers        int  `json:"total_users,omitempty"`
	MyRSVPCount       int  `json:"my_rsvp_count,omitempty"`
}

// EventFeedItem is one row of the dashboard data feed.
// swagger:model EventFeedItem
type EventFeedItem struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Date              string  `json:"date"`
	Time              string  `json:"time"`
	Location          string  `json:"location"`
	Category          *string `json:"category"`
	ParticipantsCount int     `json:"participants_count"`
}

// DashboardService computes summary counts and the event data feed. "Today"
// is the server-local date, evaluated per call.
type DashboardService interface {
	Stats(ctx context.Context, userID string) (*DashboardStats, error)
	Feed(ctx context.Context, scope DateScope) ([]*EventFeedItem, error)
}
