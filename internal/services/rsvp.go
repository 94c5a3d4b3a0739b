package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventhub/internal/domain"
)

type rsvpService struct {
	rsvpRepo     domain.RSVPRepository
	eventRepo    domain.EventRepository
	userRepo     domain.UserRepository
	emailService domain.EmailService
	logger       *slog.Logger
}

// NewRSVPService creates an RSVPService.
func NewRSVPService(
	rsvpRepo domain.RSVPRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:     rsvpRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// RSVP records the user's intent to attend the event, at most once per
// (user, event) pair. The insert races against the uniqueness constraint
// rather than a read-then-write, so two concurrent calls cannot both create
// a row; the loser is reported as "already RSVP'd". Notifications go out
// only when a new row was created, and their failures never reach the caller.
func (s *rsvpService) RSVP(ctx context.Context, eventID, userID string) (*domain.RSVP, bool, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, false, domain.ErrNotFound
		}
		return nil, false, fmt.Errorf("get event: %w", err)
	}

	user, err := authorize(ctx, s.userRepo, userID, domain.RoleParticipant)
	if err != nil {
		return nil, false, err
	}

	rsvp := domain.NewRSVP(event.ID, user.ID, time.Now())
	created, err := s.rsvpRepo.CreateIfAbsent(ctx, rsvp)
	if err != nil {
		return nil, false, fmt.Errorf("create rsvp: %w", err)
	}
	if created {
		s.notify(ctx, user, event)
	}
	return rsvp, created, nil
}

// notify sends the participant confirmation and one alert per organizer.
// Best effort all the way: a failed send is logged and skipped.
func (s *rsvpService) notify(ctx context.Context, user *domain.User, event *domain.Event) {
	confirmation := &domain.RSVPConfirmationEmailData{
		Email:     user.Email,
		FirstName: displayName(user),
		EventName: event.Name,
		EventDate: event.Date,
		EventTime: event.StartTime,
		Location:  event.Location,
	}
	if err := s.emailService.SendRSVPConfirmation(ctx, confirmation); err != nil {
		s.logger.WarnContext(ctx, "rsvp confirmation email failed", "user_id", user.ID, "event_id", event.ID, "err", err)
	}

	organizers, err := s.userRepo.ListByRole(ctx, domain.RoleOrganizer)
	if err != nil {
		s.logger.WarnContext(ctx, "listing organizers for rsvp alert failed", "event_id", event.ID, "err", err)
		return
	}
	for _, org := range organizers {
		if org.Email == "" {
			continue
		}
		alert := &domain.OrganizerRSVPEmailData{
			Email:           org.Email,
			ParticipantName: displayName(user),
			EventName:       event.Name,
			EventDate:       event.Date,
		}
		if err := s.emailService.SendOrganizerRSVPAlert(ctx, alert); err != nil {
			s.logger.WarnContext(ctx, "organizer rsvp alert failed", "organizer_id", org.ID, "event_id", event.ID, "err", err)
		}
	}
}

func (s *rsvpService) ListMine(ctx context.Context, userID string) ([]*domain.RSVPWithEvent, error) {
	items, err := s.rsvpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	if items == nil {
		items = []*domain.RSVPWithEvent{}
	}
	return items, nil
}

func displayName(u *domain.User) string {
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}
