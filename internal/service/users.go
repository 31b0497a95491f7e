package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
)

// UserService manages user profiles.
type UserService struct {
	users UserStore
	now   Clock
}

// NewUserService constructs a UserService. A nil clock uses time.Now.
func NewUserService(users UserStore, now Clock) *UserService {
	if now == nil {
		now = time.Now
	}
	return &UserService{users: users, now: now}
}

// CreateUser inserts a user unless the email is already registered, in which
// case the existing record is left untouched.
func (s *UserService) CreateUser(ctx context.Context, req model.CreateUserRequest) (*model.CreateUserResult, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.PhotoURL = strings.TrimSpace(req.PhotoURL)
	if err := Validate(req); err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     req.Email,
		Name:      req.Name,
		PhotoURL:  req.PhotoURL,
		CreatedAt: s.now().UTC(),
	}
	created, err := s.users.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if !created {
		return &model.CreateUserResult{Created: false, Reason: "exists"}, nil
	}
	return &model.CreateUserResult{Created: true, User: user}, nil
}

// FindByEmail returns the user or repository.ErrNotFound.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindByEmail(ctx, normalizeEmail(email))
}
