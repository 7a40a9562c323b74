package actors

import (
	"context"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/example/shopstore/pkg/repository"
	"github.com/example/shopstore/pkg/service"
	"go.uber.org/zap"
)

type WriteAuditLog struct {
	Entry *repository.AuditLog
}

// AuditActor writes audit entries one at a time, each bounded by timeout.
type AuditActor struct {
	store   service.AuditLogger
	timeout time.Duration
	logger  *zap.Logger
}

func (a *AuditActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *WriteAuditLog:
		writeCtx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.store.CreateAuditLog(writeCtx, msg.Entry); err != nil {
			a.logger.Warn("Failed to write audit log",
				zap.String("action", msg.Entry.Action),
				zap.Int64("entity_id", msg.Entry.EntityID),
				zap.Error(err))
		}

	case *actor.Started:
		a.logger.Info("Audit actor started")
	}
}

// Auditor is a service.AuditLogger that queues entries for the audit actor
// and returns at once, so a slow audit store never holds up the caller.
type Auditor struct {
	system *actor.ActorSystem
	pid    *actor.PID
	logger *zap.Logger
}

func NewAuditor(store service.AuditLogger, timeout time.Duration, logger *zap.Logger) (*Auditor, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &AuditActor{store: store, timeout: timeout, logger: logger.Named("audit-actor")}
	})
	pid, err := system.Root.SpawnNamed(props, "audit-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn audit actor: %w", err)
	}

	return &Auditor{system: system, pid: pid, logger: logger}, nil
}

// CreateAuditLog enqueues entry. ctx is not used once the call returns.
func (a *Auditor) CreateAuditLog(_ context.Context, entry *repository.AuditLog) error {
	a.system.Root.Send(a.pid, &WriteAuditLog{Entry: entry})
	return nil
}

// Stop waits for queued entries to be written.
func (a *Auditor) Stop() {
	if err := a.system.Root.PoisonFuture(a.pid).Wait(); err != nil {
		a.logger.Warn("Failed to stop audit actor", zap.Error(err))
	}
}
