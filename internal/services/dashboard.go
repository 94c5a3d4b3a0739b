package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
)

// feedLimit caps the dashboard data feed.
const feedLimit = 50

type dashboardService struct {
	eventRepo domain.EventRepository
	rsvpRepo  domain.RSVPRepository
	userRepo  domain.UserRepository
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(eventRepo domain.EventRepository, rsvpRepo domain.RSVPRepository, userRepo domain.UserRepository) domain.DashboardService {
	return &dashboardService{
		eventRepo: eventRepo,
		rsvpRepo:  rsvpRepo,
		userRepo:  userRepo,
	}
}

// Stats computes counts for the caller's highest role. "Today" is the
// server-local date at call time; nothing is cached between requests.
func (s *dashboardService) Stats(ctx context.Context, userID string) (*domain.DashboardStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	today := time.Now().Format(dateLayout)
	stats := &domain.DashboardStats{Role: highestRole(user)}

	if stats.TotalEvents, err = s.eventRepo.CountByDateScope(ctx, domain.ScopeAll, today); err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	if stats.UpcomingEvents, err = s.eventRepo.CountByDateScope(ctx, domain.ScopeUpcoming, today); err != nil {
		return nil, fmt.Errorf("count upcoming events: %w", err)
	}
	if stats.PastEvents, err = s.eventRepo.CountByDateScope(ctx, domain.ScopePast, today); err != nil {
		return nil, fmt.Errorf("count past events: %w", err)
	}
	if stats.TotalParticipants, err = s.rsvpRepo.CountDistinctUsers(ctx); err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}

	switch stats.Role {
	case domain.RoleAdmin:
		if stats.TotalUsers, err = s.userRepo.CountAll(ctx); err != nil {
			return nil, fmt.Errorf("count users: %w", err)
		}
	case domain.RoleParticipant:
		if stats.MyRSVPCount, err = s.rsvpRepo.CountByUserID(ctx, userID); err != nil {
			return nil, fmt.Errorf("count own rsvps: %w", err)
		}
	}
	return stats, nil
}

// Feed returns up to feedLimit events in the scope, ordered by (date, time).
func (s *dashboardService) Feed(ctx context.Context, scope domain.DateScope) ([]*domain.EventFeedItem, error) {
	today := time.Now().Format(dateLayout)
	events, err := s.eventRepo.ListByDateScope(ctx, scope, today, feedLimit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	items := make([]*domain.EventFeedItem, 0, len(events))
	for _, e := range events {
		items = append(items, &domain.EventFeedItem{
			ID:                e.ID,
			Name:              e.Name,
			Date:              e.Date,
			Time:              e.StartTime,
			Location:          e.Location,
			Category:          e.CategoryName,
			ParticipantsCount: e.ParticipantsCount,
		})
	}
	return items, nil
}

// highestRole picks the view to render: admin over organizer over
// participant. Superusers get the admin view.
func highestRole(u *domain.User) domain.Role {
	if u.IsSuperuser || u.HasAnyRole(domain.RoleAdmin) {
		return domain.RoleAdmin
	}
	if u.HasAnyRole(domain.RoleOrganizer) {
		return domain.RoleOrganizer
	}
	return domain.RoleParticipant
}
