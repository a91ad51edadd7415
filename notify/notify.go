// Package notify dispatches order notifications. Events are published to
// a Redis channel; a worker consumes them, alerts the operator on new
// orders, emails the invoice on payment, and feeds the admin websocket.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"savora/db"
	"savora/mailer"
	"savora/models"
	"savora/orderfeed"
	"savora/rdx"

	"go.mongodb.org/mongo-driver/bson"
)

const Channel = "order-events"

// Emit publishes an order event. Failures are logged and swallowed:
// notifications are best-effort and must never fail the owning operation.
func Emit(ctx context.Context, event models.OrderEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Error("notify marshal failed", "err", err)
		return
	}
	if err := rdx.Conn.Publish(ctx, Channel, data).Err(); err != nil {
		slog.Error("notify publish failed", "kind", event.Kind, "order", event.OrderID, "err", err)
	}
}

// StartWorker consumes order events until ctx is done.
func StartWorker(ctx context.Context, hub *orderfeed.Hub) {
	sub := rdx.Conn.Subscribe(ctx, Channel)
	defer sub.Close()
	ch := sub.Channel()

	slog.Info("notification worker listening", "channel", Channel)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event models.OrderEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Warn("notify decode failed", "err", err)
				continue
			}
			handle(ctx, hub, event)
		}
	}
}

func handle(ctx context.Context, hub *orderfeed.Hub, event models.OrderEvent) {
	if hub != nil {
		if data, err := json.Marshal(event); err == nil {
			hub.Broadcast(data)
		}
	}

	var order models.Order
	if err := db.OrderCollection.FindOne(ctx, bson.M{"orderid": event.OrderID}).Decode(&order); err != nil {
		slog.Warn("notify order lookup failed", "order", event.OrderID, "err", err)
		return
	}

	switch event.Kind {
	case "placed":
		// Operator alert. Delivery channel integration is pending; for
		// now the formatted message is logged.
		slog.Info("operator alert", "order", order.OrderID, "message", operatorMessage(order))
	case "paid":
		if err := mailer.SendInvoice(order); err != nil {
			slog.Error("invoice email failed", "order", order.OrderID, "err", err)
		}
	}
}

func operatorMessage(order models.Order) string {
	var items strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&items, "- %s x%d - GHS %.2f\n", item.Name, item.Quantity, item.Price*float64(item.Quantity))
	}
	promo := order.PromoCode
	if promo == "" {
		promo = "None"
	}
	return fmt.Sprintf(
		"NEW ORDER %s\nCustomer: %s\nEmail: %s\nPhone: %s\nLocation: %s\nItems:\n%sTotal: GHS %.2f\nPromo: %s",
		order.OrderID, order.Address.Name, order.Address.Email, order.Address.Phone,
		order.Address.Location, items.String(), order.Amount, promo)
}
