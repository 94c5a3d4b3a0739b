package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/internal/domain"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{DB: db}
}

// CreateIfAbsent inserts the RSVP in a single statement guarded by the
// (event_id, user_id) uniqueness constraint. ON CONFLICT DO NOTHING returns
// no row when the pair already exists; in that case the existing row is
// loaded so the caller sees the same result either way. Concurrent inserts
// for the same pair cannot both create a row.
func (r *rsvpRepository) CreateIfAbsent(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	query := `
		INSERT INTO rsvps (event_id, user_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rsvp.EventID, rsvp.UserID, rsvp.CreatedAt).Scan(&rsvp.ID)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}
	existing, err := r.GetByEventAndUser(ctx, rsvp.EventID, rsvp.UserID)
	if err != nil {
		return false, err
	}
	*rsvp = *existing
	return false, nil
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, created_at
		FROM rsvps
		WHERE event_id = $1 AND user_id = $2
	`
	rsvp := &domain.RSVP{}
	err := r.DB.QueryRowContext(ctx, query, eventID, userID).
		Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rsvp, nil
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVPWithEvent, error) {
	query := `
		SELECT rv.id, rv.event_id, rv.user_id, rv.created_at,
			e.id, e.name, e.description, e.date, e.start_time, e.location,
			e.category_id, c.name AS category_name, e.image, e.created_at, e.updated_at
		FROM rsvps rv
		INNER JOIN events e ON e.id = rv.event_id
		LEFT JOIN categories c ON c.id = e.category_id
		WHERE rv.user_id = $1
		ORDER BY e.date, e.start_time
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.RSVPWithEvent, 0)
	for rows.Next() {
		rsvp := &domain.RSVP{}
		e := &domain.Event{}
		var date time.Time
		var categoryID, categoryName, image sql.NullString
		if err := rows.Scan(
			&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &rsvp.CreatedAt,
			&e.ID, &e.Name, &e.Description, &date, &e.StartTime, &e.Location,
			&categoryID, &categoryName, &image, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		e.Date = date.Format(dateLayout)
		if categoryID.Valid {
			e.CategoryID = &categoryID.String
		}
		if categoryName.Valid {
			e.CategoryName = &categoryName.String
		}
		if image.Valid {
			e.Image = &image.String
		}
		items = append(items, &domain.RSVPWithEvent{RSVP: rsvp, Event: e})
	}
	return items, rows.Err()
}

func (r *rsvpRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}

func (r *rsvpRepository) CountDistinctUsers(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM rsvps`).Scan(&n)
	return n, err
}
