package repository

import (
	"context"
	"fmt"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// JoinRepository handles persistence for joins between users and events.
type JoinRepository struct {
	db *pgxpool.Pool
}

// NewJoinRepository constructs a JoinRepository.
func NewJoinRepository(db *pgxpool.Pool) *JoinRepository {
	return &JoinRepository{db: db}
}

// Create inserts a join. A second join for the same pair returns ErrAlreadyJoined.
func (r *JoinRepository) Create(ctx context.Context, j *model.Join) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO joins (id, event_id, user_email, created_at)
		 VALUES ($1, $2, $3, $4)`,
		j.ID, j.EventID, j.UserEmail, j.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyJoined
		}
		return fmt.Errorf("insert join: %w", err)
	}
	return nil
}

// Delete removes the join matching both fields. Zero rows is not an error.
func (r *JoinRepository) Delete(ctx context.Context, eventID, userEmail string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM joins WHERE event_id = $1 AND user_email = $2`,
		eventID, userEmail,
	)
	if err != nil {
		return 0, fmt.Errorf("delete join: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByEvent returns all joins for a given event.
func (r *JoinRepository) ListByEvent(ctx context.Context, eventID string) ([]model.Join, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, event_id, user_email, created_at
		 FROM joins
		 WHERE event_id = $1`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list joins: %w", err)
	}
	defer rows.Close()

	joins := make([]model.Join, 0)
	for rows.Next() {
		var j model.Join
		if err := rows.Scan(&j.ID, &j.EventID, &j.UserEmail, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan join: %w", err)
		}
		joins = append(joins, j)
	}
	return joins, rows.Err()
}

// ListForUser returns the user's joins with their events inlined. Joins whose
// event has been deleted drop out of the inner join.
func (r *JoinRepository) ListForUser(ctx context.Context, userEmail string) ([]model.JoinWithEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT j.id, j.event_id, j.user_email, j.created_at,
			e.id, e.owner_email, e.event_title, e.event_type, e.location, e.description,
			e.start_date, e.end_date, e.ai_assistance, e.responsibilities, e.safety_guidelines,
			e.created_at, e.updated_at
		 FROM joins j
		 JOIN events e ON e.id = j.event_id
		 WHERE j.user_email = $1
		 ORDER BY j.created_at DESC`,
		userEmail,
	)
	if err != nil {
		return nil, fmt.Errorf("list joins for user: %w", err)
	}
	defer rows.Close()

	out := make([]model.JoinWithEvent, 0)
	for rows.Next() {
		var jw model.JoinWithEvent
		e := &jw.Event
		err := rows.Scan(
			&jw.ID, &jw.EventID, &jw.UserEmail, &jw.CreatedAt,
			&e.ID, &e.OwnerEmail, &e.EventTitle, &e.EventType, &e.Location, &e.Description,
			&e.StartDate, &e.EndDate, &e.AIAssistance, &e.Responsibilities, &e.SafetyGuidelines,
			&e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan join: %w", err)
		}
		out = append(out, jw)
	}
	return out, rows.Err()
}
