package realtime

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// OrderEventsChannel is the Redis pub/sub channel order lifecycle events
// travel on. Every API instance subscribes, so dashboards connected to any
// instance see creates/accepts immediately.
const OrderEventsChannel = "taplive:order_events"

const (
	EventOrderCreated  = "order_created"
	EventOrderAccepted = "order_accepted"
	EventOrderNotice   = "order_notice"
)

type OrderEvent struct {
	Type       string     `json:"type"`
	OrderID    uuid.UUID  `json:"order_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	ProviderID *uuid.UUID `json:"provider_id,omitempty"`
	Status     string     `json:"status"`
}

// OrderNotice is a targeted message for the two parties of an order, as
// opposed to the feed event every connected dashboard sees.
type OrderNotice struct {
	Type    string    `json:"type"`
	OrderID uuid.UUID `json:"order_id"`
	Message string    `json:"message"`
}

// DispatchOrderEvent routes one event into the hub. Every event goes to the
// feed; an accept additionally notifies the customer and the winning
// provider directly, so both parties hear about the match even on a busy feed.
func DispatchOrderEvent(hub *Hub, ev OrderEvent) {
	hub.BroadcastJSON(ev)

	if ev.Type == EventOrderAccepted && ev.ProviderID != nil {
		hub.SendToOrderParties(ev.CustomerID, *ev.ProviderID, OrderNotice{
			Type:    EventOrderNotice,
			OrderID: ev.OrderID,
			Message: "Request accepted",
		})
	}
}

// PublishOrderEvent pushes an event onto the shared channel. Failures are
// logged only; the HTTP write has already committed.
func PublishOrderEvent(ctx context.Context, rdb *redis.Client, ev OrderEvent) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("Error marshaling order event: %v", err)
		return
	}
	if err := rdb.Publish(ctx, OrderEventsChannel, payload).Err(); err != nil {
		log.Printf("Error publishing order event: %v", err)
	}
}

// SubscribeOrderEvents forwards events from Redis into the local hub.
// Runs until ctx is cancelled.
func SubscribeOrderEvents(ctx context.Context, rdb *redis.Client, hub *Hub) {
	sub := rdb.Subscribe(ctx, OrderEventsChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var ev OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Printf("Error decoding order event: %v", err)
				continue
			}
			DispatchOrderEvent(hub, ev)
		}
	}
}
