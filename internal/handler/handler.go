// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/Shivanand-hulikatti/social-serve-api/internal/generator"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/model"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/repository"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/service"
	"github.com/Shivanand-hulikatti/social-serve-api/internal/token"
	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

const (
	codeGenerationUpstream  = "generation_upstream_failure"
	codeGenerationMalformed = "generation_malformed_response"
	codeUpdateConflict      = "update_conflict"
)

// Handler holds all HTTP handlers for the event platform API.
type Handler struct {
	events *service.EventService
	joins  *service.JoinService
	users  *service.UserService
	tokens *token.Service
}

// New constructs a Handler.
func New(events *service.EventService, joins *service.JoinService, users *service.UserService, tokens *token.Service) *Handler {
	return &Handler{events: events, joins: joins, users: users, tokens: tokens}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps service and repository errors onto status codes.
// Unexpected errors are logged and reported without detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMsg string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, repository.ErrAlreadyJoined):
		writeError(w, http.StatusConflict, "you have already joined this event")
	case errors.Is(err, repository.ErrConflict):
		writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: "event was changed by another request, retry", Code: codeUpdateConflict})
	case errors.Is(err, generator.ErrUpstreamFailure):
		log.WithError(err).WithField("path", r.URL.Path).Error("ai generation failed")
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: "AI generation failed", Code: codeGenerationUpstream})
	case errors.Is(err, generator.ErrMalformedResponse):
		log.WithError(err).WithField("path", r.URL.Path).Error("ai generation returned malformed content")
		writeJSON(w, http.StatusBadGateway, model.ErrorResponse{Error: "AI generation failed", Code: codeGenerationMalformed})
	default:
		log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}

// ─── Users ────────────────────────────────────────────────────────────────────

// CreateUser handles POST /create-user
// Inserts the user unless the email is already registered.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	res, err := h.users.CreateUser(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "user not found")
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}

// ─── Events ───────────────────────────────────────────────────────────────────

// CreateEvent handles POST /create-event
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.CreateEvent(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusCreated, event)
}

// UpdateEvent handles PATCH /update-event/{id}
func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateEventRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	event, err := h.events.UpdateEvent(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// DeleteEvent handles DELETE /delete-event/{id}
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	res, err := h.events.DeleteEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// EventDetails handles GET /event-details/{id}
// Returns the event together with its owner's profile.
func (h *Handler) EventDetails(w http.ResponseWriter, r *http.Request) {
	details, err := h.events.GetEventDetails(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// UpcomingEvents handles GET /upcoming-events?page&limit&search&category
func (h *Handler) UpcomingEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.events.ListUpcoming(r.Context(), listQuery(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ActiveEvents handles GET /active-events?page&limit&search&category
func (h *Handler) ActiveEvents(w http.ResponseWriter, r *http.Request) {
	page, err := h.events.ListActive(r.Context(), listQuery(r))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func listQuery(r *http.Request) service.ListQuery {
	q := r.URL.Query()
	return service.ListQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "limit"),
		Search:   q.Get("search"),
		Category: q.Get("category"),
	}
}

// MyEvents handles GET /my-events?email
// Requires a bearer token issued for the same email.
func (h *Handler) MyEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.ListOwnedBy(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// ─── Joins ────────────────────────────────────────────────────────────────────

// CreateJoin handles POST /create-join
func (h *Handler) CreateJoin(w http.ResponseWriter, r *http.Request) {
	var req model.CreateJoinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	join, err := h.joins.CreateJoin(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusCreated, join)
}

// MyJoins handles GET /my-joins?email
// Requires a bearer token issued for the same email.
func (h *Handler) MyJoins(w http.ResponseWriter, r *http.Request) {
	joins, err := h.joins.ListForUser(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, joins)
}

// EventJoins handles GET /event-joins/{id}
func (h *Handler) EventJoins(w http.ResponseWriter, r *http.Request) {
	joins, err := h.joins.ListByEvent(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "event not found")
		return
	}
	writeJSON(w, http.StatusOK, joins)
}

// DeleteJoin handles DELETE /delete-join
// The pair is read from the JSON body, or from the query string when the
// body is empty.
func (h *Handler) DeleteJoin(w http.ResponseWriter, r *http.Request) {
	var req model.DeleteJoinRequest
	if err := decodeJSON(w, r, &req); err != nil {
		if !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}
		q := r.URL.Query()
		req = model.DeleteJoinRequest{EventID: q.Get("eventId"), UserEmail: q.Get("userEmail")}
	}

	res, err := h.joins.DeleteJoin(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ─── Tokens ───────────────────────────────────────────────────────────────────

// IssueToken handles POST /getToken
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := service.Validate(req); err != nil {
		writeServiceError(w, r, err, "")
		return
	}

	signed, err := h.tokens.Issue(normalizeEmail(req.Email))
	if err != nil {
		writeServiceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, model.TokenResponse{Token: signed})
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "time": time.Now().UTC()})
}
