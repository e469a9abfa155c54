package handler

import (
	"net/http"

	"github.com/pkordes/rideshare/backend/internal/domain"
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NotificationList is the body of GET /notifications.
type NotificationList struct {
	Data       []domain.Notification `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

// UnreadCountResponse is the body of GET /notifications/unread-count.
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// MarkAllReadResponse is the body of POST /notifications/read-all.
type MarkAllReadResponse struct {
	Marked int64 `json:"marked"`
}

// ListNotifications handles GET /notifications.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	params, err := pageParams(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, total, err := s.notifications.ListPaged(r.Context(), who, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NotificationList{
		Data:       items,
		Pagination: Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// UnreadNotificationCount handles GET /notifications/unread-count.
func (s *Server) UnreadNotificationCount(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	n, err := s.notifications.UnreadCount(r.Context(), who)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UnreadCountResponse{Unread: n})
}

// MarkNotificationRead handles POST /notifications/{id}/read.
// Repeating the call on a read notification returns 200 with the same record.
func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	serveTransition(s, w, r, s.notifications.MarkRead)
}

// MarkAllNotificationsRead handles POST /notifications/read-all.
func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	who, ok := actor(w, r)
	if !ok {
		return
	}
	n, err := s.notifications.MarkAllRead(r.Context(), who)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MarkAllReadResponse{Marked: n})
}
