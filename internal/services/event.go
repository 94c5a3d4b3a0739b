package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

const (
	timeLayout = "15:04"
	dateLayout = "2006-01-02"
)

type eventService struct {
	eventRepo    domain.EventRepository
	categoryRepo domain.CategoryRepository
	userRepo     domain.UserRepository
	mediaStore   domain.MediaStore
}

// NewEventService creates an EventService. Listing is public; mutations are
// gated to the organizer and admin roles.
func NewEventService(
	eventRepo domain.EventRepository,
	categoryRepo domain.CategoryRepository,
	userRepo domain.UserRepository,
	mediaStore domain.MediaStore,
) domain.EventService {
	return &eventService{
		eventRepo:    eventRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		mediaStore:   mediaStore,
	}
}

// List returns one page of events matching the filter plus the total match
// count. Read-only: filter parameters never touch stored data.
func (s *eventService) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if err := validateFilter(filter); err != nil {
		return nil, 0, err
	}
	events, err := s.eventRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	total, err := s.eventRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}
	return events, total, nil
}

func validateFilter(filter domain.EventFilter) error {
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return fmt.Errorf("%w: dates must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	return nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) Create(ctx context.Context, actorID string, event *domain.Event) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.validateEvent(ctx, event); err != nil {
		return err
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) Update(ctx context.Context, actorID string, event *domain.Event) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.validateEvent(ctx, event); err != nil {
		return err
	}
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

func (s *eventService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) SaveEventImage(ctx context.Context, actorID, eventID, filename, contentType string, size int64, r io.Reader) (string, error) {
	if _, err := authorize(ctx, s.userRepo, actorID, domain.RoleOrganizer, domain.RoleAdmin); err != nil {
		return "", err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("get event: %w", err)
	}
	key := fmt.Sprintf("events/event_%s/%s%s", event.ID, uuid.NewString(), safeExt(filename))
	stored, err := s.mediaStore.Save(ctx, key, contentType, r, size)
	if err != nil {
		return "", fmt.Errorf("store event image: %w", err)
	}
	if err := s.eventRepo.SetImage(ctx, eventID, stored); err != nil {
		return "", fmt.Errorf("set event image: %w", err)
	}
	return stored, nil
}

func (s *eventService) validateEvent(ctx context.Context, event *domain.Event) error {
	event.Name = strings.TrimSpace(event.Name)
	event.Location = strings.TrimSpace(event.Location)
	if event.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	if event.Location == "" {
		return fmt.Errorf("%w: location is required", domain.ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, event.Date); err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}
	if _, err := time.Parse(timeLayout, event.StartTime); err != nil {
		return fmt.Errorf("%w: time must be HH:MM", domain.ErrInvalidInput)
	}
	if event.CategoryID != nil && *event.CategoryID != "" {
		if _, err := s.categoryRepo.GetByID(ctx, *event.CategoryID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: unknown category", domain.ErrInvalidInput)
			}
			return fmt.Errorf("get category: %w", err)
		}
	} else {
		event.CategoryID = nil
	}
	return nil
}
