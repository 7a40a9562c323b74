package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/service"
	"go.uber.org/zap"
)

// responseGrace is how long the caller waits past the request timeout for the
// actor to report a cancelled order.
const responseGrace = time.Second

// Dispatcher is the entry point used by the HTTP layer to place orders.
type Dispatcher struct {
	system        *actor.ActorSystem
	orders        *actor.PID
	notifications *actor.PID
	timeout       time.Duration
	logger        *zap.Logger
}

func NewDispatcher(placer OrderPlacer, timeout time.Duration, logger *zap.Logger) (*Dispatcher, error) {
	system := actor.NewActorSystem()

	notificationProps := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{logger: logger.Named("notification-actor")}
	})
	notifications, err := system.Root.SpawnNamed(notificationProps, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	orderProps := actor.PropsFromProducer(func() actor.Actor {
		return &OrderActor{
			placer:        placer,
			notifications: notifications,
			logger:        logger.Named("order-actor"),
		}
	})
	orders, err := system.Root.SpawnNamed(orderProps, "order-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn order actor: %w", err)
	}

	logger.Info("Order actors started", zap.String("order_actor", orders.Id))

	return &Dispatcher{
		system:        system,
		orders:        orders,
		notifications: notifications,
		timeout:       timeout,
		logger:        logger,
	}, nil
}

// PlaceOrder hands the order to the order actor and waits for its result.
// Orders still queued when the timeout expires are abandoned without writes.
func (d *Dispatcher) PlaceOrder(ctx context.Context, in service.PlaceOrderInput) (*service.PlacedOrder, error) {
	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	future := d.system.Root.RequestFuture(d.orders, &PlaceOrder{Ctx: reqCtx, Input: in}, d.timeout+responseGrace)
	res, err := future.Result()
	if err != nil {
		d.logger.Error("Order actor did not respond", zap.Error(err))
		return nil, apperror.Write("order request timed out", err)
	}

	result, ok := res.(*PlaceOrderResult)
	if !ok {
		return nil, fmt.Errorf("unexpected order actor response %T", res)
	}
	return result.Order, result.Err
}

func (d *Dispatcher) Stop() {
	for _, pid := range []*actor.PID{d.orders, d.notifications} {
		if err := d.system.Root.StopFuture(pid).Wait(); err != nil {
			d.logger.Warn("Failed to stop actor", zap.String("pid", pid.Id), zap.Error(err))
		}
	}
}
