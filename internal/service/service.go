// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
)

// ValidationError reports a malformed or missing request field or identifier.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// EventStore is the persistence contract for events.
type EventStore interface {
	Create(ctx context.Context, e *model.Event) error
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id string) (int64, error)
	GetByID(ctx context.Context, id string) (*model.Event, error)
	ListUpcoming(ctx context.Context, f model.EventFilter) ([]model.Event, int, error)
	ListActive(ctx context.Context, f model.EventFilter) ([]model.Event, int, error)
	ListByOwner(ctx context.Context, email string) ([]model.Event, error)
}

// JoinStore is the persistence contract for joins.
type JoinStore interface {
	Create(ctx context.Context, j *model.Join) error
	Delete(ctx context.Context, eventID, userEmail string) (int64, error)
	ListByEvent(ctx context.Context, eventID string) ([]model.Join, error)
	ListForUser(ctx context.Context, userEmail string) ([]model.JoinWithEvent, error)
}

// UserStore is the persistence contract for users.
type UserStore interface {
	CreateIfAbsent(ctx context.Context, u *model.User) (bool, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// ContentGenerator produces AI-assisted event content.
type ContentGenerator interface {
	Generate(ctx context.Context, p model.EventPrompt) (model.GeneratedContent, error)
}

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a request schema and returns a ValidationError naming the
// first offending field.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return invalid("%s is invalid (%s)", fe.Field(), fe.Tag())
		}
		return invalid("invalid request: %v", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateID(id string) error {
	if id == "" {
		return invalid("id is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return invalid("id %q is not a valid identifier", id)
	}
	return nil
}

// NormalizePage clamps pagination input: page below 1 becomes 1, a missing
// page size uses DefaultPageSize and sizes are bounded to [1, MaxPageSize].
// Page is capped at MaxPage(pageSize) so the row offset cannot overflow.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = DefaultPageSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	if limit := MaxPage(pageSize); page > limit {
		page = limit
	}
	return page, pageSize
}

// MaxPage is the largest page number whose offset fits in an int.
func MaxPage(pageSize int) int {
	return math.MaxInt / pageSize
}
