// Package model defines the core domain types for the community event platform.
package model

import (
	"math"
	"time"
)

// DateLayout is the calendar-day format used for event start and end dates.
// Dates in this layout sort lexically in chronological order.
const DateLayout = "2006-01-02"

// User is a registered platform user, keyed by email.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	PhotoURL  string    `json:"photoURL,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Event is a community activity published by an organizer.
type Event struct {
	ID               string     `json:"_id"`
	OwnerEmail       string     `json:"ownerEmail"`
	EventTitle       string     `json:"eventTitle"`
	EventType        string     `json:"eventType"`
	Location         string     `json:"location"`
	Description      string     `json:"description"`
	StartDate        string     `json:"startDate"`
	EndDate          string     `json:"endDate"`
	AIAssistance     bool       `json:"aiAssistance"`
	Responsibilities []string   `json:"responsibilities"`
	SafetyGuidelines []string   `json:"safetyGuidelines"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        *time.Time `json:"updatedAt,omitempty"`

	// Version increments on every stored update. Writes carrying a stale
	// version are rejected.
	Version int64 `json:"-"`
}

// Prompt returns the fields the content generator works from.
func (e *Event) Prompt() EventPrompt {
	return EventPrompt{
		Title:       e.EventTitle,
		Type:        e.EventType,
		Location:    e.Location,
		Description: e.Description,
	}
}

// EventDetails is an event enriched with its owner's profile at read time.
type EventDetails struct {
	Event
	Owner *User `json:"owner,omitempty"`
}

// Join records a user's registered interest in an event.
type Join struct {
	ID        string    `json:"_id"`
	EventID   string    `json:"eventId"`
	UserEmail string    `json:"userEmail"`
	CreatedAt time.Time `json:"createdAt"`
}

// JoinWithEvent is a join enriched with the full referenced event.
type JoinWithEvent struct {
	Join
	Event Event `json:"event"`
}

// EventPrompt carries the event fields embedded into a generation prompt.
type EventPrompt struct {
	Title       string
	Type        string
	Location    string
	Description string
}

// GeneratedContent is the structured output of the content generator.
type GeneratedContent struct {
	Responsibilities []string `json:"responsibilities"`
	SafetyGuidelines []string `json:"safetyGuidelines"`
}

// EventFilter narrows a paginated listing. Today is a DateLayout string.
type EventFilter struct {
	Today    string
	Search   string
	Category string
	Page     int
	PageSize int
}

// Offset returns the number of matching rows to skip for the filter's page.
// It is never negative.
func (f EventFilter) Offset() int {
	if f.Page < 1 || f.PageSize < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.PageSize {
		return math.MaxInt
	}
	return (f.Page - 1) * f.PageSize
}

// EventPage is one page of a filtered listing.
type EventPage struct {
	Events     []Event `json:"events"`
	TotalPages int     `json:"totalPages"`
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// CreateUserRequest is the payload for POST /create-user.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

// CreateUserResult reports whether a user record was inserted.
type CreateUserResult struct {
	Created bool   `json:"created"`
	Reason  string `json:"reason,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// CreateEventRequest is the payload for POST /create-event.
type CreateEventRequest struct {
	OwnerEmail   string `json:"ownerEmail" validate:"required,email"`
	EventTitle   string `json:"eventTitle" validate:"required"`
	EventType    string `json:"eventType" validate:"required"`
	Location     string `json:"location" validate:"required"`
	Description  string `json:"description"`
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	EndDate      string `json:"endDate" validate:"required,datetime=2006-01-02"`
	AIAssistance bool   `json:"aiAssistance"`
}

// UpdateEventRequest is the payload for PATCH /update-event/{id}.
// Nil fields are left unchanged.
type UpdateEventRequest struct {
	EventTitle   *string `json:"eventTitle"`
	EventType    *string `json:"eventType"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	StartDate    *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate      *string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	RegenerateAI bool    `json:"regenerateAI"`
}

// CreateJoinRequest is the payload for POST /create-join.
type CreateJoinRequest struct {
	EventID   string `json:"eventId" validate:"required,uuid"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}

// DeleteJoinRequest is the payload for DELETE /delete-join.
type DeleteJoinRequest struct {
	EventID   string `json:"eventId" validate:"required"`
	UserEmail string `json:"userEmail" validate:"required,email"`
}

// TokenRequest is the payload for POST /getToken.
type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// DeleteResult reports how many records a delete removed.
type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

// ErrorResponse is a standard JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
