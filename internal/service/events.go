package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
	"github.com/google/uuid"
)

// EventService orchestrates event-related business operations.
type EventService struct {
	events EventStore
	users  UserStore
	gen    ContentGenerator
	now    Clock
}

// NewEventService constructs an EventService with its dependencies.
// A nil clock uses time.Now.
func NewEventService(events EventStore, users UserStore, gen ContentGenerator, now Clock) *EventService {
	if now == nil {
		now = time.Now
	}
	return &EventService{events: events, users: users, gen: gen, now: now}
}

// ListQuery is the caller-supplied pagination and filter input.
type ListQuery struct {
	Page     int
	PageSize int
	Search   string
	Category string
}

// CreateEvent validates the request, optionally generates responsibilities and
// safety guidelines, and persists the event. Nothing is stored if generation fails.
func (s *EventService) CreateEvent(ctx context.Context, req model.CreateEventRequest) (*model.Event, error) {
	req.OwnerEmail = normalizeEmail(req.OwnerEmail)
	req.EventTitle = strings.TrimSpace(req.EventTitle)
	req.EventType = strings.TrimSpace(req.EventType)
	req.Location = strings.TrimSpace(req.Location)
	req.Description = strings.TrimSpace(req.Description)
	if err := Validate(req); err != nil {
		return nil, err
	}
	if req.EndDate < req.StartDate {
		return nil, invalid("endDate must not be before startDate")
	}

	event := &model.Event{
		ID:               uuid.NewString(),
		OwnerEmail:       req.OwnerEmail,
		EventTitle:       req.EventTitle,
		EventType:        req.EventType,
		Location:         req.Location,
		Description:      req.Description,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		AIAssistance:     req.AIAssistance,
		Responsibilities: []string{},
		SafetyGuidelines: []string{},
	}

	if req.AIAssistance {
		if err := s.fillContent(ctx, event); err != nil {
			return nil, err
		}
	}

	event.CreatedAt = s.now().UTC()
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// updateAttempts bounds how often a plain patch is re-applied after losing a
// race with another writer.
const updateAttempts = 3

// UpdateEvent merges the non-nil fields of req into the stored event. With
// RegenerateAI set, content is regenerated from the merged fields and the whole
// update is abandoned if generation fails.
//
// The write is conditional on the version that was read. A plain patch is
// re-read and re-applied when another update got there first. A regenerating
// patch is not: its content was generated from fields that are now stale, so
// the caller gets repository.ErrConflict.
func (s *EventService) UpdateEvent(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := Validate(req); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		event, err := s.applyUpdate(ctx, id, req)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, repository.ErrConflict) || req.RegenerateAI || attempt >= updateAttempts {
			return nil, err
		}
	}
}

func (s *EventService) applyUpdate(ctx context.Context, id string, req model.UpdateEventRequest) (*model.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if err := applyPatch(event, req); err != nil {
		return nil, err
	}

	if req.RegenerateAI {
		if err := s.fillContent(ctx, event); err != nil {
			return nil, err
		}
		event.AIAssistance = true
	}

	now := s.now().UTC()
	event.UpdatedAt = &now
	if err := s.events.Update(ctx, event); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

func applyPatch(e *model.Event, req model.UpdateEventRequest) error {
	required := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"eventTitle", req.EventTitle, &e.EventTitle},
		{"eventType", req.EventType, &e.EventType},
		{"location", req.Location, &e.Location},
		{"startDate", req.StartDate, &e.StartDate},
		{"endDate", req.EndDate, &e.EndDate},
	}
	for _, f := range required {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return invalid("%s must not be empty", f.name)
		}
		*f.dst = v
	}
	if req.Description != nil {
		e.Description = strings.TrimSpace(*req.Description)
	}
	if e.EndDate < e.StartDate {
		return invalid("endDate must not be before startDate")
	}
	return nil
}

func (s *EventService) fillContent(ctx context.Context, e *model.Event) error {
	content, err := s.gen.Generate(ctx, e.Prompt())
	if err != nil {
		return fmt.Errorf("generate event content: %w", err)
	}
	e.Responsibilities = content.Responsibilities
	e.SafetyGuidelines = content.SafetyGuidelines
	return nil
}

// DeleteEvent removes an event. Joins that reference it are kept.
func (s *EventService) DeleteEvent(ctx context.Context, id string) (model.DeleteResult, error) {
	if err := validateID(id); err != nil {
		return model.DeleteResult{}, err
	}
	n, err := s.events.Delete(ctx, id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("delete event: %w", err)
	}
	return model.DeleteResult{DeletedCount: n}, nil
}

// GetEventDetails returns an event with its owner's profile, if one exists.
func (s *EventService) GetEventDetails(ctx context.Context, id string) (*model.EventDetails, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	details := &model.EventDetails{Event: *event}
	owner, err := s.users.FindByEmail(ctx, event.OwnerEmail)
	switch {
	case err == nil:
		details.Owner = owner
	case !errors.Is(err, repository.ErrNotFound):
		return nil, fmt.Errorf("get event owner: %w", err)
	}
	return details, nil
}

// ListUpcoming returns a page of events starting after today.
func (s *EventService) ListUpcoming(ctx context.Context, q ListQuery) (*model.EventPage, error) {
	return s.list(ctx, q, s.events.ListUpcoming)
}

// ListActive returns a page of events running today.
func (s *EventService) ListActive(ctx context.Context, q ListQuery) (*model.EventPage, error) {
	return s.list(ctx, q, s.events.ListActive)
}

type pageFunc func(ctx context.Context, f model.EventFilter) ([]model.Event, int, error)

func (s *EventService) list(ctx context.Context, q ListQuery, fetch pageFunc) (*model.EventPage, error) {
	page, size := NormalizePage(q.Page, q.PageSize)
	f := model.EventFilter{
		Today:    s.Today(),
		Search:   strings.TrimSpace(q.Search),
		Category: strings.TrimSpace(q.Category),
		Page:     page,
		PageSize: size,
	}
	events, total, err := fetch(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return &model.EventPage{Events: events, TotalPages: model.TotalPages(total, size)}, nil
}

// ListOwnedBy returns every event created by email, newest first.
func (s *EventService) ListOwnedBy(ctx context.Context, email string) ([]model.Event, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, invalid("email is required")
	}
	events, err := s.events.ListByOwner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list owned events: %w", err)
	}
	if events == nil {
		events = []model.Event{}
	}
	return events, nil
}

// Today is the current UTC calendar day in model.DateLayout.
func (s *EventService) Today() string {
	return s.now().UTC().Format(model.DateLayout)
}
