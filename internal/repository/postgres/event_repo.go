package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

const dateLayout = "2006-01-02"

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventSelect = `
	SELECT e.id, e.name, e.description, e.date, e.start_time, e.location,
		e.category_id, c.name AS category_name, e.image, e.created_at, e.updated_at,
		COUNT(DISTINCT r.user_id) AS participants_count
	FROM events e
	LEFT JOIN categories c ON c.id = e.category_id
	LEFT JOIN rsvps r ON r.event_id = e.id
`

const eventGroupBy = ` GROUP BY e.id, c.name`

func scanEventRow(scan func(dest ...any) error) (*domain.Event, error) {
	e := &domain.Event{}
	var date time.Time
	var categoryID, categoryName, image sql.NullString
	err := scan(
		&e.ID, &e.Name, &e.Description, &date, &e.StartTime, &e.Location,
		&categoryID, &categoryName, &image, &e.CreatedAt, &e.UpdatedAt,
		&e.ParticipantsCount,
	)
	if err != nil {
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
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (name, description, date, start_time, location, category_id, image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	var image any
	if e.Image != nil {
		image = *e.Image
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Name, e.Description, e.Date, e.StartTime, e.Location, e.CategoryID, image,
		e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := eventSelect + `WHERE e.id = $1` + eventGroupBy
	row := r.DB.QueryRowContext(ctx, query, id)
	e, err := scanEventRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// filterClauses builds the WHERE fragment for the given filter. Arguments are
// numbered from 1; the returned n is the next free placeholder index.
func filterClauses(filter domain.EventFilter) (where string, args []any, n int) {
	clauses := []string{}
	n = 1
	if q := strings.TrimSpace(filter.Query); q != "" {
		clauses = append(clauses, fmt.Sprintf("(e.name ILIKE $%d OR e.location ILIKE $%d)", n, n))
		args = append(args, "%"+q+"%")
		n++
	}
	if filter.CategoryID != "" {
		clauses = append(clauses, fmt.Sprintf("e.category_id = $%d", n))
		args = append(args, filter.CategoryID)
		n++
	}
	if filter.StartDate != "" {
		clauses = append(clauses, fmt.Sprintf("e.date >= $%d", n))
		args = append(args, filter.StartDate)
		n++
	}
	if filter.EndDate != "" {
		clauses = append(clauses, fmt.Sprintf("e.date <= $%d", n))
		args = append(args, filter.EndDate)
		n++
	}
	if len(clauses) == 0 {
		return "", nil, n
	}
	return "WHERE " + strings.Join(clauses, " AND "), args, n
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, error) {
	where, args, n := filterClauses(filter)
	query := eventSelect + where + eventGroupBy +
		fmt.Sprintf(" ORDER BY e.date, e.start_time LIMIT $%d OFFSET $%d", n, n+1)
	args = append(args, p.PageSize, p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEventRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	where, args, _ := filterClauses(filter)
	query := `SELECT COUNT(*) FROM events e ` + where
	var n int
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET name = $1, description = $2, date = $3, start_time = $4, location = $5,
			category_id = $6, updated_at = $7
		WHERE id = $8
	`
	result, err := r.DB.ExecContext(ctx, query,
		e.Name, e.Description, e.Date, e.StartTime, e.Location, e.CategoryID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetImage(ctx context.Context, eventID, image string) error {
	query := `UPDATE events SET image = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.DB.ExecContext(ctx, query, image, eventID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scopeClause returns the date predicate for the scope, or "" for ScopeAll.
func scopeClause(scope domain.DateScope) string {
	switch scope {
	case domain.ScopeUpcoming:
		return "e.date >= $1"
	case domain.ScopePast:
		return "e.date < $1"
	case domain.ScopeToday:
		return "e.date = $1"
	}
	return ""
}

func (r *eventRepository) ListByDateScope(ctx context.Context, scope domain.DateScope, today string, limit int) ([]*domain.Event, error) {
	where := ""
	args := []any{}
	n := 1
	if clause := scopeClause(scope); clause != "" {
		where = "WHERE " + clause
		args = append(args, today)
		n++
	}
	query := eventSelect + where + eventGroupBy +
		fmt.Sprintf(" ORDER BY e.date, e.start_time LIMIT $%d", n)
	args = append(args, limit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEventRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) CountByDateScope(ctx context.Context, scope domain.DateScope, today string) (int, error) {
	query := `SELECT COUNT(*) FROM events e`
	args := []any{}
	if clause := scopeClause(scope); clause != "" {
		query += " WHERE " + clause
		args = append(args, today)
	}
	var n int
	err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
