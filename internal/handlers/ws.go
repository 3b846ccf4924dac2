package handlers

import (
	"log"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/taplive-app/taplive_be/internal/realtime"
)

type OrderFeedHandler struct {
	Hub *realtime.Hub
}

func NewOrderFeedHandler(hub *realtime.Hub) *OrderFeedHandler {
	return &OrderFeedHandler{Hub: hub}
}

// WebSocketHandler streams order lifecycle events to a connected dashboard
// so listings refresh without polling. The session middleware on the route
// has already verified the cookie, so the user id in locals is trusted.
func (h *OrderFeedHandler) WebSocketHandler(c *websocket.Conn) {
	userID, _ := c.Locals("userId").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		log.Println("WebSocket: missing or invalid session user:", err)
		c.Close()
		return
	}

	client := &realtime.Client{
		ID:     uuid.New().String(),
		UserID: userUUID,
		Conn:   realtime.NewWebSocketConn(c),
		Send:   make(chan []byte, 256),
	}

	h.Hub.RegisterClient(client)
	defer func() {
		h.Hub.UnregisterClient(client)
		log.Printf("WebSocket: user %s disconnected\n", userID)
	}()

	// hub -> client
	go func() {
		for msg := range client.Send {
			if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Println("WebSocket write error:", err)
				return
			}
		}
	}()

	// client -> server: only keepalive traffic is expected
	for {
		var payload map[string]interface{}
		if err := c.ReadJSON(&payload); err != nil {
			break
		}
		if msgType, ok := payload["type"].(string); ok && msgType == "pong" {
			continue
		}
	}
}
