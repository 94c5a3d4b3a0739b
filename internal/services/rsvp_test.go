package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestRSVPService_RSVP(t *testing.T) {
	ctx := context.Background()
	event := &domain.Event{ID: "e1", Name: "GopherCon", Date: "2025-07-04", StartTime: "09:30", Location: "Berlin"}
	participant := &domain.User{ID: "u1", Username: "alice", Email: "alice@example.com", IsActive: true, Roles: []domain.Role{domain.RoleParticipant}}

	t.Run("first rsvp creates and notifies", func(t *testing.T) {
		eventRepo := newMockEventRepository()
		eventRepo.events["e1"] = event
		userRepo := newMockUserRepository()
		userRepo.users["u1"] = participant
		userRepo.byRole[domain.RoleOrganizer] = []*domain.User{
			{ID: "org1", Email: "org1@example.com"},
			{ID: "org2", Email: ""},
			{ID: "org3", Email: "org3@example.com"},
		}
		rsvpRepo := newMockRSVPRepository()
		emails := &mockEmailService{}
		svc := NewRSVPService(rsvpRepo, eventRepo, userRepo, emails, discardLogger())

		rsvp, created, err := svc.RSVP(ctx, "e1", "u1")
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "new-rsvp-id", rsvp.ID)

		// Confirmation to the participant plus one alert per organizer with
		// an address; org2 has none and is skipped.
		require.Len(t, emails.sent, 3)
		assert.Equal(t, sentEmail{kind: "rsvp_confirmation", to: "alice@example.com"}, emails.sent[0])
		assert.Equal(t, sentEmail{kind: "rsvp_organizer", to: "org1@example.com"}, emails.sent[1])
		assert.Equal(t, sentEmail{kind: "rsvp_organizer", to: "org3@example.com"}, emails.sent[2])
	})

	t.Run("repeat rsvp returns existing row and does not notify again", func(t *testing.T) {
		eventRepo := newMockEventRepository()
		eventRepo.events["e1"] = event
		userRepo := newMockUserRepository()
		userRepo.users["u1"] = participant
		rsvpRepo := newMockRSVPRepository()
		rsvpRepo.existing[rsvpKey("e1", "u1")] = &domain.RSVP{ID: "rsvp-existing", EventID: "e1", UserID: "u1", CreatedAt: time.Now().Add(-time.Hour)}
		emails := &mockEmailService{}
		svc := NewRSVPService(rsvpRepo, eventRepo, userRepo, emails, discardLogger())

		rsvp, created, err := svc.RSVP(ctx, "e1", "u1")
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, "rsvp-existing", rsvp.ID)
		assert.Empty(t, emails.sent)
	})

	t.Run("unknown event", func(t *testing.T) {
		svc := NewRSVPService(newMockRSVPRepository(), newMockEventRepository(), newMockUserRepository(), &mockEmailService{}, discardLogger())

		_, _, err := svc.RSVP(ctx, "missing", "u1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("non participant is forbidden", func(t *testing.T) {
		eventRepo := newMockEventRepository()
		eventRepo.events["e1"] = event
		userRepo := newMockUserRepository()
		userRepo.users["u2"] = &domain.User{ID: "u2", Roles: []domain.Role{domain.RoleOrganizer}}
		svc := NewRSVPService(newMockRSVPRepository(), eventRepo, userRepo, &mockEmailService{}, discardLogger())

		_, _, err := svc.RSVP(ctx, "e1", "u2")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("superuser may rsvp without the role", func(t *testing.T) {
		eventRepo := newMockEventRepository()
		eventRepo.events["e1"] = event
		userRepo := newMockUserRepository()
		userRepo.users["root"] = &domain.User{ID: "root", Email: "root@example.com", IsSuperuser: true}
		svc := NewRSVPService(newMockRSVPRepository(), eventRepo, userRepo, &mockEmailService{}, discardLogger())

		_, created, err := svc.RSVP(ctx, "e1", "root")
		require.NoError(t, err)
		assert.True(t, created)
	})

	t.Run("notification failures do not fail the rsvp", func(t *testing.T) {
		eventRepo := newMockEventRepository()
		eventRepo.events["e1"] = event
		userRepo := newMockUserRepository()
		userRepo.users["u1"] = participant
		emails := &mockEmailService{confirmationErr: assert.AnError, organizerErr: assert.AnError}
		svc := NewRSVPService(newMockRSVPRepository(), eventRepo, userRepo, emails, discardLogger())

		_, created, err := svc.RSVP(ctx, "e1", "u1")
		require.NoError(t, err)
		assert.True(t, created)
	})
}

func TestRSVPService_ListMine(t *testing.T) {
	ctx := context.Background()

	t.Run("returns rsvps with events", func(t *testing.T) {
		rsvpRepo := newMockRSVPRepository()
		rsvpRepo.byUser["u1"] = []*domain.RSVPWithEvent{
			{RSVP: &domain.RSVP{ID: "r1", EventID: "e1", UserID: "u1"}, Event: &domain.Event{ID: "e1", Name: "GopherCon"}},
		}
		svc := NewRSVPService(rsvpRepo, newMockEventRepository(), newMockUserRepository(), &mockEmailService{}, discardLogger())

		items, err := svc.ListMine(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "GopherCon", items[0].Event.Name)
	})

	t.Run("no rsvps yields empty slice", func(t *testing.T) {
		svc := NewRSVPService(newMockRSVPRepository(), newMockEventRepository(), newMockUserRepository(), &mockEmailService{}, discardLogger())

		items, err := svc.ListMine(ctx, "u1")
		require.NoError(t, err)
		require.NotNil(t, items)
		assert.Empty(t, items)
	})
}
