package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/generator"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository/memory"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2030, 6, 15, 12, 0, 0, 0, time.UTC)

const today = "2030-06-15"

type stubGenerator struct {
	mu      sync.Mutex
	calls   int
	prompts []model.EventPrompt
	err     error
}

func (g *stubGenerator) Generate(_ context.Context, p model.EventPrompt) (model.GeneratedContent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, p)
	if g.err != nil {
		return model.GeneratedContent{}, g.err
	}
	n := g.calls
	return model.GeneratedContent{
		Responsibilities: []string{
			fmt.Sprintf("r1-%d", n), fmt.Sprintf("r2-%d", n), fmt.Sprintf("r3-%d", n),
			fmt.Sprintf("r4-%d", n), fmt.Sprintf("r5-%d", n),
		},
		SafetyGuidelines: []string{
			fmt.Sprintf("s1-%d", n), fmt.Sprintf("s2-%d", n), fmt.Sprintf("s3-%d", n),
			fmt.Sprintf("s4-%d", n), fmt.Sprintf("s5-%d", n),
		},
	}, nil
}

type fixture struct {
	store  *memory.Store
	gen    *stubGenerator
	events *EventService
	joins  *JoinService
	users  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	gen := &stubGenerator{}
	clock := func() time.Time { return fixedNow }
	return &fixture{
		store:  store,
		gen:    gen,
		events: NewEventService(store.Events(), store.Users(), gen, clock),
		joins:  NewJoinService(store.Joins(), store.Events(), clock),
		users:  NewUserService(store.Users(), clock),
	}
}

func eventReq(title, start, end string) model.CreateEventRequest {
	return model.CreateEventRequest{
		OwnerEmail: "owner@x.com",
		EventTitle: title,
		EventType:  "Environment",
		Location:   "North Shore",
		StartDate:  start,
		EndDate:    end,
	}
}

func (f *fixture) mustCreate(t *testing.T, req model.CreateEventRequest) *model.Event {
	t.Helper()
	e, err := f.events.CreateEvent(context.Background(), req)
	require.NoError(t, err)
	return e
}

func TestCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("ai assisted", func(t *testing.T) {
		f := newFixture(t)
		req := eventReq("Beach Cleanup", "2099-01-01", "2099-01-01")
		req.AIAssistance = true

		e := f.mustCreate(t, req)
		require.Equal(t, 1, f.gen.calls)
		require.Equal(t, "Beach Cleanup", f.gen.prompts[0].Title)

		stored, err := f.store.Events().GetByID(ctx, e.ID)
		require.NoError(t, err)
		require.True(t, stored.AIAssistance)
		require.Len(t, stored.Responsibilities, 5)
		require.Len(t, stored.SafetyGuidelines, 5)
		require.Equal(t, fixedNow, stored.CreatedAt)
		require.Nil(t, stored.UpdatedAt)
	})

	t.Run("without ai never calls generator", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))

		require.Zero(t, f.gen.calls)
		require.False(t, e.AIAssistance)
		require.Empty(t, e.Responsibilities)
		require.NotEmpty(t, e.ID)
	})

	t.Run("generation failure persists nothing", func(t *testing.T) {
		f := newFixture(t)
		f.gen.err = fmt.Errorf("%w: boom", generator.ErrUpstreamFailure)
		req := eventReq("Beach Cleanup", "2099-01-01", "2099-01-01")
		req.AIAssistance = true

		_, err := f.events.CreateEvent(ctx, req)
		require.ErrorIs(t, err, generator.ErrUpstreamFailure)

		owned, err := f.events.ListOwnedBy(ctx, "owner@x.com")
		require.NoError(t, err)
		require.Empty(t, owned)
	})

	t.Run("normalizes owner email", func(t *testing.T) {
		f := newFixture(t)
		req := eventReq("Park Walk", "2099-01-01", "2099-01-02")
		req.OwnerEmail = "  Owner@X.com "
		e := f.mustCreate(t, req)
		require.Equal(t, "owner@x.com", e.OwnerEmail)
	})

	invalidCases := []struct {
		name   string
		mutate func(*model.CreateEventRequest)
	}{
		{"missing title", func(r *model.CreateEventRequest) { r.EventTitle = "  " }},
		{"bad email", func(r *model.CreateEventRequest) { r.OwnerEmail = "nope" }},
		{"bad start date", func(r *model.CreateEventRequest) { r.StartDate = "01/02/2099" }},
		{"end before start", func(r *model.CreateEventRequest) { r.EndDate = "2098-12-31" }},
	}
	for _, tc := range invalidCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			req := eventReq("Park Walk", "2099-01-01", "2099-01-02")
			tc.mutate(&req)

			_, err := f.events.CreateEvent(ctx, req)
			require.True(t, IsValidation(err), "expected validation error, got %v", err)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }

	t.Run("partial merge", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))

		updated, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{Location: str("South Park")})
		require.NoError(t, err)
		require.Equal(t, "South Park", updated.Location)
		require.Equal(t, "Park Walk", updated.EventTitle)
		require.NotNil(t, updated.UpdatedAt)
		require.Zero(t, f.gen.calls)

		stored, err := f.store.Events().GetByID(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, "South Park", stored.Location)
		require.Equal(t, e.CreatedAt, stored.CreatedAt)
	})

	t.Run("regenerate uses patched fields", func(t *testing.T) {
		f := newFixture(t)
		req := eventReq("Park Walk", "2099-01-01", "2099-01-02")
		req.AIAssistance = true
		e := f.mustCreate(t, req)

		updated, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{
			EventTitle:   str("River Cleanup"),
			RegenerateAI: true,
		})
		require.NoError(t, err)
		require.Equal(t, 2, f.gen.calls)
		require.Equal(t, "River Cleanup", f.gen.prompts[1].Title)
		require.True(t, updated.AIAssistance)
		require.Equal(t, "r1-2", updated.Responsibilities[0])
	})

	t.Run("regenerate turns on ai assistance", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))

		updated, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{RegenerateAI: true})
		require.NoError(t, err)
		require.True(t, updated.AIAssistance)
		require.Len(t, updated.SafetyGuidelines, 5)
	})

	t.Run("generation failure leaves record unchanged", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))
		f.gen.err = fmt.Errorf("%w: bad json", generator.ErrMalformedResponse)

		_, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{
			EventTitle:   str("Changed"),
			RegenerateAI: true,
		})
		require.ErrorIs(t, err, generator.ErrMalformedResponse)

		stored, err := f.store.Events().GetByID(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, "Park Walk", stored.EventTitle)
		require.False(t, stored.AIAssistance)
		require.Nil(t, stored.UpdatedAt)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.events.UpdateEvent(ctx, "8c7e1d0a-3f5b-4a8e-9f1e-2b6d7c8a9e0f", model.UpdateEventRequest{})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("invalid id", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.events.UpdateEvent(ctx, "abc", model.UpdateEventRequest{})
		require.True(t, IsValidation(err))
	})

	t.Run("empty required field", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))
		_, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{EventTitle: str(" ")})
		require.True(t, IsValidation(err))
	})

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))
		_, err := f.events.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{EndDate: str("2098-01-01")})
		require.True(t, IsValidation(err))
	})
}

// gatedGenerator blocks each call until release is closed.
type gatedGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *gatedGenerator) Generate(ctx context.Context, _ model.EventPrompt) (model.GeneratedContent, error) {
	g.started <- struct{}{}
	select {
	case <-g.release:
	case <-ctx.Done():
		return model.GeneratedContent{}, ctx.Err()
	}
	return model.GeneratedContent{
		Responsibilities: []string{"r1", "r2", "r3", "r4", "r5"},
		SafetyGuidelines: []string{"s1", "s2", "s3", "s4", "s5"},
	}, nil
}

// racingEvents applies race once, right after the first read.
type racingEvents struct {
	*memory.EventRepository
	once sync.Once
	race func()
}

func (r *racingEvents) GetByID(ctx context.Context, id string) (*model.Event, error) {
	e, err := r.EventRepository.GetByID(ctx, id)
	r.once.Do(r.race)
	return e, err
}

func TestUpdateEventConcurrentWriters(t *testing.T) {
	ctx := context.Background()
	str := func(s string) *string { return &s }
	clock := func() time.Time { return fixedNow }

	t.Run("regeneration does not overwrite a newer patch", func(t *testing.T) {
		store := memory.NewStore()
		gen := &gatedGenerator{started: make(chan struct{}), release: make(chan struct{})}
		svc := NewEventService(store.Events(), store.Users(), gen, clock)

		e, err := svc.CreateEvent(ctx, eventReq("Park Walk", "2099-01-01", "2099-01-02"))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() {
			_, err := svc.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{RegenerateAI: true})
			done <- err
		}()
		<-gen.started

		updated, err := svc.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{Location: str("South Beach")})
		require.NoError(t, err)
		require.Equal(t, "South Beach", updated.Location)

		close(gen.release)
		require.ErrorIs(t, <-done, repository.ErrConflict)

		stored, err := store.Events().GetByID(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, "South Beach", stored.Location)
		require.False(t, stored.AIAssistance)
		require.Empty(t, stored.Responsibilities)
	})

	t.Run("plain patch is reapplied after a race", func(t *testing.T) {
		store := memory.NewStore()
		other := NewEventService(store.Events(), store.Users(), &stubGenerator{}, clock)
		e, err := other.CreateEvent(ctx, eventReq("Park Walk", "2099-01-01", "2099-01-02"))
		require.NoError(t, err)

		events := &racingEvents{EventRepository: store.Events()}
		events.race = func() {
			_, err := other.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{Description: str("Bring gloves")})
			require.NoError(t, err)
		}
		svc := NewEventService(events, store.Users(), &stubGenerator{}, clock)

		updated, err := svc.UpdateEvent(ctx, e.ID, model.UpdateEventRequest{Location: str("South Beach")})
		require.NoError(t, err)
		require.Equal(t, "South Beach", updated.Location)
		require.Equal(t, "Bring gloves", updated.Description)

		stored, err := store.Events().GetByID(ctx, e.ID)
		require.NoError(t, err)
		require.Equal(t, "South Beach", stored.Location)
		require.Equal(t, "Bring gloves", stored.Description)
		require.Equal(t, int64(2), stored.Version)
	})
}

func TestDeleteEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))

	res, err := f.events.DeleteEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), res.DeletedCount)

	res, err = f.events.DeleteEvent(ctx, e.ID)
	require.NoError(t, err)
	require.Zero(t, res.DeletedCount)

	_, err = f.events.GetEventDetails(ctx, e.ID)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGetEventDetails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.mustCreate(t, eventReq("Park Walk", "2099-01-01", "2099-01-02"))

	details, err := f.events.GetEventDetails(ctx, e.ID)
	require.NoError(t, err)
	require.Nil(t, details.Owner)

	_, err = f.users.CreateUser(ctx, model.CreateUserRequest{Email: "owner@x.com", Name: "Olive"})
	require.NoError(t, err)

	details, err = f.events.GetEventDetails(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, details.Owner)
	require.Equal(t, "Olive", details.Owner.Name)
	require.Equal(t, "Park Walk", details.EventTitle)
}

func TestListUpcoming(t *testing.T) {
	ctx := context.Background()

	t.Run("pagination", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 13; i++ {
			f.mustCreate(t, eventReq(fmt.Sprintf("Event %02d", i), fmt.Sprintf("2031-01-%02d", 13-i), "2031-02-01"))
		}

		page, err := f.events.ListUpcoming(ctx, ListQuery{Page: 1, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, page.Events, 6)
		require.Equal(t, 3, page.TotalPages)
		require.Equal(t, "2031-01-01", page.Events[0].StartDate)
		for i := 1; i < len(page.Events); i++ {
			require.LessOrEqual(t, page.Events[i-1].StartDate, page.Events[i].StartDate)
		}

		last, err := f.events.ListUpcoming(ctx, ListQuery{Page: 3, PageSize: 6})
		require.NoError(t, err)
		require.Len(t, last.Events, 1)
		require.Equal(t, "2031-01-13", last.Events[0].StartDate)

		beyond, err := f.events.ListUpcoming(ctx, ListQuery{Page: 9, PageSize: 6})
		require.NoError(t, err)
		require.Empty(t, beyond.Events)
		require.NotNil(t, beyond.Events)
		require.Equal(t, 3, beyond.TotalPages)
	})

	t.Run("page size bound", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 10; i++ {
			f.mustCreate(t, eventReq("E", "2031-01-01", "2031-01-01"))
		}
		for size := 1; size <= 12; size++ {
			page, err := f.events.ListUpcoming(ctx, ListQuery{Page: 1, PageSize: size})
			require.NoError(t, err)
			require.LessOrEqual(t, len(page.Events), size)
			require.Equal(t, (10+size-1)/size, page.TotalPages)
		}
	})

	t.Run("defaults and clamping", func(t *testing.T) {
		f := newFixture(t)
		for i := 0; i < 8; i++ {
			f.mustCreate(t, eventReq("E", "2031-01-01", "2031-01-01"))
		}
		page, err := f.events.ListUpcoming(ctx, ListQuery{})
		require.NoError(t, err)
		require.Len(t, page.Events, DefaultPageSize)
		require.Equal(t, 2, page.TotalPages)

		page, err = f.events.ListUpcoming(ctx, ListQuery{Page: -3, PageSize: -1})
		require.NoError(t, err)
		require.Len(t, page.Events, 1)
		require.Equal(t, 8, page.TotalPages)
	})

	t.Run("today is not upcoming", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreate(t, eventReq("Today", today, today))
		f.mustCreate(t, eventReq("Tomorrow", "2030-06-16", "2030-06-16"))
		f.mustCreate(t, eventReq("Past", "2030-06-01", "2030-06-02"))

		page, err := f.events.ListUpcoming(ctx, ListQuery{})
		require.NoError(t, err)
		require.Len(t, page.Events, 1)
		require.Equal(t, "Tomorrow", page.Events[0].EventTitle)
	})

	t.Run("search and category", func(t *testing.T) {
		f := newFixture(t)
		f.mustCreate(t, eventReq("Beach Cleanup", "2031-01-01", "2031-01-01"))
		f.mustCreate(t, eventReq("beach volleyball", "2031-01-02", "2031-01-02"))
		other := eventReq("Food Drive", "2031-01-03", "2031-01-03")
		other.EventType = "Charity"
		f.mustCreate(t, other)
		literal := eventReq("100% Fun", "2031-01-04", "2031-01-04")
		f.mustCreate(t, literal)

		page, err := f.events.ListUpcoming(ctx, ListQuery{Search: "BEACH"})
		require.NoError(t, err)
		require.Len(t, page.Events, 2)

		page, err = f.events.ListUpcoming(ctx, ListQuery{Category: "Charity"})
		require.NoError(t, err)
		require.Len(t, page.Events, 1)
		require.Equal(t, "Food Drive", page.Events[0].EventTitle)

		page, err = f.events.ListUpcoming(ctx, ListQuery{Search: "beach", Category: "Charity"})
		require.NoError(t, err)
		require.Empty(t, page.Events)
		require.Zero(t, page.TotalPages)

		page, err = f.events.ListUpcoming(ctx, ListQuery{Search: "%"})
		require.NoError(t, err)
		require.Len(t, page.Events, 1)
	})
}

func TestListActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustCreate(t, eventReq("Starts today", today, "2030-06-20"))
	f.mustCreate(t, eventReq("Ends today", "2030-06-10", today))
	f.mustCreate(t, eventReq("Running", "2030-06-01", "2030-07-01"))
	f.mustCreate(t, eventReq("Ended", "2030-06-01", "2030-06-14"))
	f.mustCreate(t, eventReq("Future", "2030-06-16", "2030-06-20"))

	page, err := f.events.ListActive(ctx, ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, page.TotalPages)

	var titles []string
	for _, e := range page.Events {
		titles = append(titles, e.EventTitle)
	}
	require.Equal(t, []string{"Running", "Ends today", "Starts today"}, titles)

	upcoming, err := f.events.ListUpcoming(ctx, ListQuery{})
	require.NoError(t, err)
	require.Len(t, upcoming.Events, 1)
	require.Equal(t, "Future", upcoming.Events[0].EventTitle)
}

func TestListOwnedBy(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	now := fixedNow
	clock := func() time.Time {
		now = now.Add(time.Minute)
		return now
	}
	svc := NewEventService(store.Events(), store.Users(), &stubGenerator{}, clock)

	for _, title := range []string{"first", "second", "third"} {
		_, err := svc.CreateEvent(ctx, eventReq(title, "2031-01-01", "2031-01-01"))
		require.NoError(t, err)
	}
	other := eventReq("someone else", "2031-01-01", "2031-01-01")
	other.OwnerEmail = "other@x.com"
	_, err := svc.CreateEvent(ctx, other)
	require.NoError(t, err)

	events, err := svc.ListOwnedBy(ctx, "Owner@x.com")
	require.NoError(t, err)
	require.Len(t, events, 3)
	require.Equal(t, "third", events[0].EventTitle)
	require.Equal(t, "first", events[2].EventTitle)

	_, err = svc.ListOwnedBy(ctx, " ")
	require.True(t, IsValidation(err))
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.users.CreateUser(ctx, model.CreateUserRequest{Email: "alice@x.com", Name: "Alice"})
	require.NoError(t, err)
	require.True(t, res.Created)
	require.Equal(t, fixedNow, res.User.CreatedAt)

	res, err = f.users.CreateUser(ctx, model.CreateUserRequest{Email: "ALICE@x.com", Name: "Someone else"})
	require.NoError(t, err)
	require.False(t, res.Created)
	require.Equal(t, "exists", res.Reason)

	u, err := f.users.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", u.Name)

	_, err = f.users.FindByEmail(ctx, "bob@x.com")
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.users.CreateUser(ctx, model.CreateUserRequest{Email: "not-an-email"})
	require.True(t, IsValidation(err))
}

func TestJoins(t *testing.T) {
	ctx := context.Background()

	t.Run("create then list for user", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Beach Cleanup", "2031-01-01", "2031-01-01"))

		j, err := f.joins.CreateJoin(ctx, model.CreateJoinRequest{EventID: e.ID, UserEmail: "bob@x.com"})
		require.NoError(t, err)
		require.Equal(t, fixedNow, j.CreatedAt)

		list, err := f.joins.ListForUser(ctx, "bob@x.com")
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, j.ID, list[0].ID)
		require.Equal(t, *e, list[0].Event)

		byEvent, err := f.joins.ListByEvent(ctx, e.ID)
		require.NoError(t, err)
		require.Len(t, byEvent, 1)
	})

	t.Run("duplicate join", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Beach Cleanup", "2031-01-01", "2031-01-01"))
		req := model.CreateJoinRequest{EventID: e.ID, UserEmail: "bob@x.com"}

		_, err := f.joins.CreateJoin(ctx, req)
		require.NoError(t, err)
		_, err = f.joins.CreateJoin(ctx, req)
		require.ErrorIs(t, err, repository.ErrAlreadyJoined)
	})

	t.Run("unknown event", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.joins.CreateJoin(ctx, model.CreateJoinRequest{
			EventID:   "8c7e1d0a-3f5b-4a8e-9f1e-2b6d7c8a9e0f",
			UserEmail: "bob@x.com",
		})
		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("delete missing join is a no-op", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.joins.DeleteJoin(ctx, model.DeleteJoinRequest{EventID: "nothing", UserEmail: "bob@x.com"})
		require.NoError(t, err)
		require.Zero(t, res.DeletedCount)
	})

	t.Run("delete join", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Beach Cleanup", "2031-01-01", "2031-01-01"))
		_, err := f.joins.CreateJoin(ctx, model.CreateJoinRequest{EventID: e.ID, UserEmail: "bob@x.com"})
		require.NoError(t, err)

		res, err := f.joins.DeleteJoin(ctx, model.DeleteJoinRequest{EventID: e.ID, UserEmail: "BOB@x.com"})
		require.NoError(t, err)
		require.Equal(t, int64(1), res.DeletedCount)

		list, err := f.joins.ListForUser(ctx, "bob@x.com")
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("orphaned joins drop out of user listing", func(t *testing.T) {
		f := newFixture(t)
		e := f.mustCreate(t, eventReq("Beach Cleanup", "2031-01-01", "2031-01-01"))
		_, err := f.joins.CreateJoin(ctx, model.CreateJoinRequest{EventID: e.ID, UserEmail: "bob@x.com"})
		require.NoError(t, err)

		_, err = f.events.DeleteEvent(ctx, e.ID)
		require.NoError(t, err)

		list, err := f.joins.ListForUser(ctx, "bob@x.com")
		require.NoError(t, err)
		require.Empty(t, list)

		byEvent, err := f.joins.ListByEvent(ctx, e.ID)
		require.NoError(t, err)
		require.Len(t, byEvent, 1)
	})
}

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
	}{
		{0, 0, 1, DefaultPageSize},
		{2, 10, 2, 10},
		{-1, -5, 1, 1},
		{1, 1000, 1, MaxPageSize},
		{math.MaxInt, 6, math.MaxInt / 6, 6},
		{3074457345618258603, 6, math.MaxInt / 6, 6},
		{math.MaxInt, 1, math.MaxInt, 1},
	}
	for _, tc := range tests {
		p, s := NormalizePage(tc.page, tc.size)
		require.Equal(t, tc.wantPage, p)
		require.Equal(t, tc.wantSize, s)

		f := model.EventFilter{Page: p, PageSize: s}
		require.GreaterOrEqual(t, f.Offset(), 0)
	}
}
