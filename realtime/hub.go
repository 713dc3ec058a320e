package realtime

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

const (
	EventApplicationStatus = "application.status"
	EventNoticeCreated     = "notice.created"
)

// Hub keeps one websocket per signed-in user. A new connection for the same
// user replaces the old one.
type Hub struct {
	mu     sync.RWMutex
	byUser map[uuid.UUID]*wsConn
	log    *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{byUser: make(map[uuid.UUID]*wsConn), log: log.WithField("component", "realtime")}
}

// wsConn wraps a websocket connection with a write mutex to serialize writes.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) write(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(msg)
}

// Message is the envelope of every pushed event.
type Message struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (h *Hub) Register(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if old, ok := h.byUser[userID]; ok {
		old.conn.Close()
	}
	h.byUser[userID] = &wsConn{conn: conn}
}

// Unregister closes conn and forgets it if it is still the user's current connection.
func (h *Hub) Unregister(userID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.byUser[userID]; ok && c.conn == conn {
		delete(h.byUser, userID)
	}
	conn.Close()
}

// Connected reports whether the user has an open connection.
func (h *Hub) Connected(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.byUser[userID]
	return ok
}

// Notify sends a typed event payload to the user if connected.
func (h *Hub) Notify(userID uuid.UUID, event string, payload any) error {
	h.mu.RLock()
	wc, ok := h.byUser[userID]
	h.mu.RUnlock()
	if !ok {
		h.log.WithFields(logrus.Fields{"user_id": userID, "event": event}).Debug("user not connected; drop event")
		return nil
	}
	if err := wc.write(Message{Event: event, Data: payload}); err != nil {
		h.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "event": event}).Warn("ws write failed")
		return err
	}
	return nil
}

// Broadcast sends the event to every connected user.
func (h *Hub) Broadcast(event string, payload any) {
	h.mu.RLock()
	conns := make(map[uuid.UUID]*wsConn, len(h.byUser))
	for id, c := range h.byUser {
		conns[id] = c
	}
	h.mu.RUnlock()
	msg := Message{Event: event, Data: payload}
	for id, c := range conns {
		if err := c.write(msg); err != nil {
			h.log.WithError(err).WithFields(logrus.Fields{"user_id": id, "event": event}).Warn("ws write failed")
		}
	}
}

// ApplicationStatusPayload is sent to an applicant when their application is reviewed.
type ApplicationStatusPayload struct {
	ApplicationID       uuid.UUID                `json:"applicationId"`
	VolunteerActivityID uuid.UUID                `json:"volunteerActivityId"`
	Status              entity.ApplicationStatus `json:"status"`
}

// NoticePayload announces a new notice.
type NoticePayload struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

func (h *Hub) ApplicationStatusChanged(a *entity.Application) {
	_ = h.Notify(a.UserID, EventApplicationStatus, ApplicationStatusPayload{
		ApplicationID:       a.ID,
		VolunteerActivityID: a.VolunteerActivityID,
		Status:              a.Status,
	})
}

func (h *Hub) NoticeCreated(n *entity.Notice) {
	if !n.IsPublished {
		return
	}
	h.Broadcast(EventNoticeCreated, NoticePayload{ID: n.ID, Title: n.Title})
}
