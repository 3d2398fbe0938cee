// Package httpapi exposes the manual deadline-check trigger and the
// notification read endpoints. Anything fancier than that (auth,
// routing middleware, task CRUD) belongs to the surrounding system.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/nhle/deadline-reminder/internal/model"
)

// Checker runs one deadline check on demand.
type Checker interface {
	RunDeadlineCheck(ctx context.Context) (int, error)
}

// NotificationStore is the slice of the store the API serves.
type NotificationStore interface {
	ListNotifications(ctx context.Context, userID string, unreadOnly bool, limit int) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, id string) (bool, error)
	DeleteNotification(ctx context.Context, id string) (bool, error)
}

// Server holds the API's collaborators.
type Server struct {
	checker Checker
	notes   NotificationStore
	log     zerolog.Logger
}

// New creates a Server.
func New(checker Checker, notes NotificationStore, log zerolog.Logger) *Server {
	return &Server{checker: checker, notes: notes, log: log}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /check", s.handleCheck)
	mux.HandleFunc("GET /notifications", s.handleListNotifications)
	mux.HandleFunc("POST /notifications/{id}/read", s.handleMarkRead)
	mux.HandleFunc("DELETE /notifications/{id}", s.handleDeleteNotification)
	return mux
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	count, err := s.checker.RunDeadlineCheck(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("manual deadline check failed")
		writeError(w, http.StatusInternalServerError, "deadline check failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"notifications_created": count})
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing user parameter")
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = n
	}

	notifications, err := s.notes.ListNotifications(r.Context(), userID, unreadOnly, limit)
	if err != nil {
		s.log.Error().Err(err).Str("user", userID).Msg("listing notifications failed")
		writeError(w, http.StatusInternalServerError, "listing notifications failed")
		return
	}
	if notifications == nil {
		notifications = []model.Notification{}
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ok, err := s.notes.MarkNotificationRead(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("marking notification read failed")
		writeError(w, http.StatusInternalServerError, "marking notification read failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteNotification(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ok, err := s.notes.DeleteNotification(r.Context(), id)
	if err != nil {
		s.log.Error().Err(err).Str("id", id).Msg("deleting notification failed")
		writeError(w, http.StatusInternalServerError, "deleting notification failed")
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "notification not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
