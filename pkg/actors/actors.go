// Package actors runs order placement through a protoactor actor system so
// that orders are processed one message at a time.
package actors

import (
	"context"
	"fmt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/service"
	"go.uber.org/zap"
)

// OrderPlacer is the workflow the order actor drives.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (*service.PlacedOrder, error)
}

// Messages
type PlaceOrder struct {
	Ctx   context.Context
	Input service.PlaceOrderInput
}

type PlaceOrderResult struct {
	Order *service.PlacedOrder
	Err   error
}

type SendNotification struct {
	Recipient string
	Type      string // email, sms, push
	Message   string
}

// OrderActor places orders and confirms each success to the notification actor.
type OrderActor struct {
	placer        OrderPlacer
	notifications *actor.PID
	logger        *zap.Logger
}

func (a *OrderActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *PlaceOrder:
		if err := msg.Ctx.Err(); err != nil {
			ctx.Respond(&PlaceOrderResult{Err: apperror.Write("order request expired", err)})
			return
		}

		a.logger.Debug("Placing order",
			zap.Int64("customer_id", msg.Input.CustomerID),
			zap.Int("item_count", len(msg.Input.Items)))

		order, err := a.placer.PlaceOrder(msg.Ctx, msg.Input)
		ctx.Respond(&PlaceOrderResult{Order: order, Err: err})
		if err != nil || a.notifications == nil {
			return
		}

		ctx.Send(a.notifications, &SendNotification{
			Recipient: fmt.Sprintf("customer:%d", order.CustomerID),
			Type:      "email",
			Message: fmt.Sprintf("Order %d confirmed, total %s",
				order.OrderID, order.TotalAmount.StringFixed(2)),
		})

	case *actor.Started:
		a.logger.Info("Order actor started")

	case *actor.Stopping:
		a.logger.Info("Order actor stopping")

	case *actor.Stopped:
		a.logger.Info("Order actor stopped")
	}
}

// NotificationActor delivers customer notifications. Delivery is a log entry;
// no mail transport is configured.
type NotificationActor struct {
	logger *zap.Logger
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SendNotification:
		a.logger.Info("Sending notification",
			zap.String("recipient", msg.Recipient),
			zap.String("type", msg.Type),
			zap.String("message", msg.Message))

	case *actor.Started:
		a.logger.Info("Notification actor started")
	}
}
