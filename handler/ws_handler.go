package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dlfdnd96/kidari-teacher-sub001/middleware"
	"github.com/dlfdnd96/kidari-teacher-sub001/realtime"
)

type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler accepts upgrades from the given origins; an empty list accepts any.
func NewWSHandler(hub *realtime.Hub, allowedOrigins []string) *WSHandler {
	allowed := map[string]struct{}{}
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		}},
	}
}

// Socket upgrades to WS and registers the session user's connection.
// Session middleware must run before this handler.
func (h *WSHandler) Socket() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if !s.Authenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"code": "UNAUTHORIZED", "message": "로그인이 필요합니다."}})
			return
		}
		conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		h.hub.Register(s.UserID, conn)
		defer h.hub.Unregister(s.UserID, conn)

		// no inbound events are expected; keep reading until the client leaves
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
