package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
	"github.com/google/uuid"
)

// JoinService manages users' registrations of interest in events.
type JoinService struct {
	joins  JoinStore
	events EventStore
	now    Clock
}

// NewJoinService constructs a JoinService. A nil clock uses time.Now.
func NewJoinService(joins JoinStore, events EventStore, now Clock) *JoinService {
	if now == nil {
		now = time.Now
	}
	return &JoinService{joins: joins, events: events, now: now}
}

// CreateJoin records that a user joined an existing event.
func (s *JoinService) CreateJoin(ctx context.Context, req model.CreateJoinRequest) (*model.Join, error) {
	req.UserEmail = normalizeEmail(req.UserEmail)
	if err := Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.events.GetByID(ctx, req.EventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	join := &model.Join{
		ID:        uuid.NewString(),
		EventID:   req.EventID,
		UserEmail: req.UserEmail,
		CreatedAt: s.now().UTC(),
	}
	if err := s.joins.Create(ctx, join); err != nil {
		if errors.Is(err, repository.ErrAlreadyJoined) {
			return nil, repository.ErrAlreadyJoined
		}
		return nil, fmt.Errorf("create join: %w", err)
	}
	return join, nil
}

// DeleteJoin removes the join for the (event, user) pair. Deleting a join that
// does not exist succeeds with a zero count.
func (s *JoinService) DeleteJoin(ctx context.Context, req model.DeleteJoinRequest) (model.DeleteResult, error) {
	req.UserEmail = normalizeEmail(req.UserEmail)
	if err := Validate(req); err != nil {
		return model.DeleteResult{}, err
	}
	n, err := s.joins.Delete(ctx, req.EventID, req.UserEmail)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete join: %w", err)
	}
	return model.DeleteResult{DeletedCount: n}, nil
}

// ListByEvent returns every join referencing the event.
func (s *JoinService) ListByEvent(ctx context.Context, eventID string) ([]model.Join, error) {
	if err := validateID(eventID); err != nil {
		return nil, err
	}
	joins, err := s.joins.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list joins: %w", err)
	}
	if joins == nil {
		joins = []model.Join{}
	}
	return joins, nil
}

// ListForUser returns the user's joins, each with its event.
func (s *JoinService) ListForUser(ctx context.Context, email string) ([]model.JoinWithEvent, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	out, err := s.joins.ListForUser(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list joins for user: %w", err)
	}
	if out == nil {
		out = []model.JoinWithEvent{}
	}
	return out, nil
}
