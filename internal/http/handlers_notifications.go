package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/stayseek/gateway/internal/domain/notification"
	apperrors "github.com/stayseek/gateway/internal/errors"
	"github.com/stayseek/gateway/internal/service"
)

const (
	wsWriteTimeout = 10 * time.Second
	wsPingInterval = 30 * time.Second
)

// NotificationHandlers serves the notification REST endpoints and the
// websocket stream.
type NotificationHandlers struct {
	Svc      *service.NotificationService
	Logger   *slog.Logger
	Upgrader websocket.Upgrader
}

func (h *NotificationHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// List returns the signed-in user's newest notifications.
// GET /api/notifications.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	items, err := h.Svc.List(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "notifications_unavailable", Err: err})
		return
	}

	unread := 0
	for _, n := range items {
		if !n.Read() {
			unread++
		}
	}
	WriteJSON(w, http.StatusOK, map[string]any{
		"notifications": viewNotifications(items),
		"unread_count":  unread,
	})
}

// notificationView decorates a notification with the path the client should
// open when it is clicked.
type notificationView struct {
	notification.Notification
	OpenTarget string `json:"open_target"`
}

func viewNotifications(items []notification.Notification) []notificationView {
	views := make([]notificationView, len(items))
	for i, n := range items {
		views[i] = notificationView{Notification: n, OpenTarget: n.OpenTarget()}
	}
	return views
}

// MarkRead marks one notification read.
// POST /api/notifications/{id}/read.
func (h *NotificationHandlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_id", Err: errors.New("notification id is required")})
		return
	}

	if err := h.Svc.MarkRead(r.Context(), session.UserID, id); err != nil {
		if apperrors.IsNotFound(err) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found", Err: err})
			return
		}
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "mark_read_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MarkAllRead marks everything currently unread as read.
// POST /api/notifications/read-all.
func (h *NotificationHandlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	ids, err := h.Svc.MarkAllRead(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "mark_all_read_failed", Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "updated": ids})
}

// streamCommand is a client->server message on the stream socket.
type streamCommand struct {
	Action string `json:"action"` // "mark_read" | "mark_all_read"
	ID     string `json:"id,omitempty"`
}

// streamMessage is a server->client message on the stream socket.
type streamMessage struct {
	Type          string              `json:"type"` // "snapshot" | "event"
	Notifications []notificationView  `json:"notifications,omitempty"`
	Event         *notification.Event `json:"event,omitempty"`
	UnreadCount   int                 `json:"unread_count"`
}

// Stream upgrades to a websocket and pushes the user's notification state:
// one snapshot message, then an event message per applied change. Client
// commands mark notifications read over the same socket.
// GET /api/notifications/stream.
func (h *NotificationHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	session, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		writeUnauthenticated(w)
		return
	}

	channel, err := h.Svc.Open(r.Context(), session.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusServiceUnavailable, ErrCode: "stream_unavailable", Err: err})
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		channel.Close()
		return
	}
	defer conn.Close()
	defer channel.Close()

	go h.readCommands(r, conn, channel)

	if writeErr := writeStreamMessage(conn, streamMessage{
		Type:          "snapshot",
		Notifications: viewNotifications(channel.Snapshot()),
		UnreadCount:   channel.UnreadCount(),
	}); writeErr != nil {
		return
	}

	ping := time.NewTicker(wsPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ping.C:
			deadline := time.Now().Add(wsWriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case ev, open := <-channel.Events():
			if !open {
				return
			}
			if err := writeStreamMessage(conn, streamMessage{
				Type:        "event",
				Event:       &ev,
				UnreadCount: channel.UnreadCount(),
			}); err != nil {
				return
			}
		}
	}
}

// readCommands consumes client commands until the socket dies. Closing the
// channel here unblocks the write loop via the closed Events stream.
func (h *NotificationHandlers) readCommands(r *http.Request, conn *websocket.Conn, channel *service.Channel) {
	defer channel.Close()

	for {
		var cmd streamCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger().Debug("notification stream read error", "error", err)
			}
			return
		}

		switch cmd.Action {
		case "mark_read":
			channel.MarkAsRead(r.Context(), cmd.ID)
		case "mark_all_read":
			channel.MarkAllAsRead(r.Context())
		default:
			h.logger().Debug("unknown stream command", "action", cmd.Action)
		}
	}
}

func writeStreamMessage(conn *websocket.Conn, msg streamMessage) error {
	if err := conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func writeUnauthenticated(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}
