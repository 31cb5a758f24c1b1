package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/orderdesk/ticketdesk-backend/api/responses"
	notificationsvc "github.com/orderdesk/ticketdesk-backend/internal/notifications"
	"github.com/orderdesk/ticketdesk-backend/pkg/db"
	pkgerrors "github.com/orderdesk/ticketdesk-backend/pkg/errors"
	"github.com/orderdesk/ticketdesk-backend/pkg/logger"
)

// ListNotifications returns unread notifications for one subscriber chat.
// The bots poll this, render the messages, then acknowledge each one via
// MarkNotificationRead.
func ListNotifications(repo notificationsvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification repository unavailable"))
			return
		}

		chatParam := strings.TrimSpace(r.URL.Query().Get("chatId"))
		if chatParam == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "chatId filter is required"))
			return
		}
		chatID, err := strconv.ParseInt(chatParam, 10, 64)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid chatId"))
			return
		}

		rows, err := repo.ListUnreadByChat(r.Context(), chatID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// MarkNotificationRead acknowledges a delivered notification so it drops out
// of the unread poll. Re-acknowledging reports NOT_FOUND.
func MarkNotificationRead(repo notificationsvc.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification repository unavailable"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid notification id"))
			return
		}

		if err := repo.MarkRead(r.Context(), id); err != nil {
			if db.IsNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "notification not found or already read"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "read": true})
	}
}
