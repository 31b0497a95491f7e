// Package memory keeps users, events and joins in process memory with the
// same semantics as the PostgreSQL repositories.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
)

// Store holds every collection behind one lock so the user join listing can
// read events and joins consistently.
type Store struct {
	mu     sync.RWMutex
	events []model.Event // insertion order
	joins  []model.Join  // insertion order
	users  map[string]model.User
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{users: make(map[string]model.User)}
}

// Events returns the event repository backed by s.
func (s *Store) Events() *EventRepository { return &EventRepository{s: s} }
// Joins returns the join repository backed by s.
func (s *Store) Joins() *JoinRepository   { return &JoinRepository{s: s} }
// Users returns the user repository backed by s.
func (s *Store) Users() *UserRepository   { return &UserRepository{s: s} }

func (s *Store) eventIndex(id string) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}

// EventRepository stores events in a Store.
type EventRepository struct {
	s *Store
}

// Create appends a copy of e.
func (r *EventRepository) Create(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.events = append(r.s.events, cloneEvent(*e))
	return nil
}

// Update replaces the mutable fields of an event, keeping its owner and
// creation time. It returns ErrConflict when e.Version is stale.
func (r *EventRepository) Update(_ context.Context, e *model.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.eventIndex(e.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	if r.s.events[i].Version != e.Version {
		return repository.ErrConflict
	}
	updated := cloneEvent(*e)
	updated.OwnerEmail = r.s.events[i].OwnerEmail
	updated.CreatedAt = r.s.events[i].CreatedAt
	updated.Version++
	r.s.events[i] = updated
	e.Version = updated.Version
	return nil
}

// Delete removes an event by id and reports how many were removed.
func (r *EventRepository) Delete(_ context.Context, id string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i := r.s.eventIndex(id)
	if i < 0 {
		return 0, nil
	}
	r.s.events = append(r.s.events[:i], r.s.events[i+1:]...)
	return 1, nil
}

// GetByID returns a copy of the event or ErrNotFound.
func (r *EventRepository) GetByID(_ context.Context, id string) (*model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	i := r.s.eventIndex(id)
	if i < 0 {
		return nil, repository.ErrNotFound
	}
	e := cloneEvent(r.s.events[i])
	return &e, nil
}

// ListUpcoming returns events starting strictly after f.Today.
func (r *EventRepository) ListUpcoming(_ context.Context, f model.EventFilter) ([]model.Event, int, error) {
	return r.listPage(f, func(e *model.Event) bool {
		return e.StartDate > f.Today
	})
}

// ListActive returns events whose date range contains f.Today.
func (r *EventRepository) ListActive(_ context.Context, f model.EventFilter) ([]model.Event, int, error) {
	return r.listPage(f, func(e *model.Event) bool {
		return e.StartDate <= f.Today && e.EndDate >= f.Today
	})
}

func (r *EventRepository) listPage(f model.EventFilter, inRange func(*model.Event) bool) ([]model.Event, int, error) {
	search := strings.ToLower(f.Search)

	r.s.mu.RLock()
	matched := make([]model.Event, 0)
	for i := range r.s.events {
		e := &r.s.events[i]
		if !inRange(e) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.EventTitle), search) {
			continue
		}
		if f.Category != "" && e.EventType != f.Category {
			continue
		}
		matched = append(matched, cloneEvent(*e))
	}
	r.s.mu.RUnlock()

	// Stable sort keeps insertion order among equal start dates.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].StartDate < matched[j].StartDate
	})

	total := len(matched)
	start := f.Offset()
	if start < 0 || start > total {
		start = total
	}
	end := start + f.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// ListByOwner returns the owner's events, most recent first.
func (r *EventRepository) ListByOwner(_ context.Context, email string) ([]model.Event, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Event, 0)
	for i := len(r.s.events) - 1; i >= 0; i-- {
		if r.s.events[i].OwnerEmail == email {
			out = append(out, cloneEvent(r.s.events[i]))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// JoinRepository stores joins in a Store.
type JoinRepository struct {
	s *Store
}

// Create records a join or returns ErrAlreadyJoined.
func (r *JoinRepository) Create(_ context.Context, j *model.Join) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.joins {
		if existing.EventID == j.EventID && existing.UserEmail == j.UserEmail {
			return repository.ErrAlreadyJoined
		}
	}
	r.s.joins = append(r.s.joins, *j)
	return nil
}

// Delete removes the join for the event and email pair.
func (r *JoinRepository) Delete(_ context.Context, eventID, userEmail string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	kept := r.s.joins[:0]
	var removed int64
	for _, j := range r.s.joins {
		if j.EventID == eventID && j.UserEmail == userEmail {
			removed++
			continue
		}
		kept = append(kept, j)
	}
	r.s.joins = kept
	return removed, nil
}

// ListByEvent returns the joins for an event in insertion order.
func (r *JoinRepository) ListByEvent(_ context.Context, eventID string) ([]model.Join, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.Join, 0)
	for _, j := range r.s.joins {
		if j.EventID == eventID {
			out = append(out, j)
		}
	}
	return out, nil
}

// ListForUser returns the user's joins with their events, newest first.
// Joins whose event no longer exists are skipped.
func (r *JoinRepository) ListForUser(_ context.Context, userEmail string) ([]model.JoinWithEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]model.JoinWithEvent, 0)
	for i := len(r.s.joins) - 1; i >= 0; i-- {
		j := r.s.joins[i]
		if j.UserEmail != userEmail {
			continue
		}
		idx := r.s.eventIndex(j.EventID)
		if idx < 0 {
			continue
		}
		out = append(out, model.JoinWithEvent{Join: j, Event: cloneEvent(r.s.events[idx])})
	}
	return out, nil
}

// UserRepository stores users in a Store.
type UserRepository struct {
	s *Store
}

// CreateIfAbsent inserts u unless its email is already present.
func (r *UserRepository) CreateIfAbsent(_ context.Context, u *model.User) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.Email]; ok {
		return false, nil
	}
	r.s.users[u.Email] = *u
	return true, nil
}

// FindByEmail returns the user or ErrNotFound.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

// cloneEvent copies the slices so callers never share backing arrays with the store.
func cloneEvent(e model.Event) model.Event {
	e.Responsibilities = append([]string{}, e.Responsibilities...)
	e.SafetyGuidelines = append([]string{}, e.SafetyGuidelines...)
	if e.UpdatedAt != nil {
		t := *e.UpdatedAt
		e.UpdatedAt = &t
	}
	return e
}
