package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, owner_email, event_title, event_type, location, description,
	start_date, end_date, ai_assistance, responsibilities, safety_guidelines,
	created_at, updated_at, version`

// EventRepository handles persistence for events.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a fully built event. The caller assigns ID and CreatedAt.
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO events (`+eventColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		e.ID, e.OwnerEmail, e.EventTitle, e.EventType, e.Location, e.Description,
		e.StartDate, e.EndDate, e.AIAssistance, nonNil(e.Responsibilities), nonNil(e.SafetyGuidelines),
		e.CreatedAt, e.UpdatedAt, e.Version,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Update overwrites every mutable field of an existing event in one statement.
// The write only applies when the stored version still equals e.Version; on
// success e.Version is advanced. A stale version yields ErrConflict.
func (r *EventRepository) Update(ctx context.Context, e *model.Event) error {
	err := r.db.QueryRow(ctx,
		`UPDATE events SET
			event_title = $2, event_type = $3, location = $4, description = $5,
			start_date = $6, end_date = $7, ai_assistance = $8,
			responsibilities = $9, safety_guidelines = $10, updated_at = $11,
			version = version + 1
		 WHERE id = $1 AND version = $12
		 RETURNING version`,
		e.ID, e.EventTitle, e.EventType, e.Location, e.Description,
		e.StartDate, e.EndDate, e.AIAssistance,
		nonNil(e.Responsibilities), nonNil(e.SafetyGuidelines), e.UpdatedAt, e.Version,
	).Scan(&e.Version)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update event: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE id = $1)`, e.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if exists {
		return ErrConflict
	}
	return ErrNotFound
}

// Delete removes an event by id. Joins referencing it are left in place.
func (r *EventRepository) Delete(ctx context.Context, id string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete event: %w", err)
	}
	return tag.RowsAffected(), nil
}

// GetByID returns a single event or ErrNotFound.
func (r *EventRepository) GetByID(ctx context.Context, id string) (*model.Event, error) {
	row := r.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// ListUpcoming returns events starting strictly after f.Today.
func (r *EventRepository) ListUpcoming(ctx context.Context, f model.EventFilter) ([]model.Event, int, error) {
	return r.listPage(ctx, []string{"start_date > $1"}, f)
}

// ListActive returns events whose date range contains f.Today, inclusive.
func (r *EventRepository) ListActive(ctx context.Context, f model.EventFilter) ([]model.Event, int, error) {
	return r.listPage(ctx, []string{"start_date <= $1", "end_date >= $1"}, f)
}

// listPage applies the shared search/category filter, counts the matches and
// fetches one page ordered by start date.
func (r *EventRepository) listPage(ctx context.Context, conds []string, f model.EventFilter) ([]model.Event, int, error) {
	args := []any{f.Today}
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		conds = append(conds, "event_title ILIKE $"+strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, "event_type = $"+strconv.Itoa(len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM events`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	args = append(args, f.PageSize, f.Offset())
	query := `SELECT ` + eventColumns + ` FROM events` + where +
		` ORDER BY start_date ASC, created_at ASC, id ASC` +
		` LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	events, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// ListByOwner returns all events created by email, most recent first.
func (r *EventRepository) ListByOwner(ctx context.Context, email string) ([]model.Event, error) {
	return r.query(ctx,
		`SELECT `+eventColumns+` FROM events WHERE owner_email = $1 ORDER BY created_at DESC`,
		email,
	)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) ([]model.Event, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.OwnerEmail, &e.EventTitle, &e.EventType, &e.Location, &e.Description,
		&e.StartDate, &e.EndDate, &e.AIAssistance, &e.Responsibilities, &e.SafetyGuidelines,
		&e.CreatedAt, &e.UpdatedAt, &e.Version,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
