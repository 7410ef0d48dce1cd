package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ihuarraquax/santavibe-sub004/internal/application/exchange"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/domain"
	"github.com/Ihuarraquax/santavibe-sub004/pkg/ports"
)

// subscriberName is the pool's logical consumer identity on the event
// bus. All service instances share it, so each event is dispatched once.
const subscriberName = "notifications"

// Pool manages a pool of notification worker goroutines
type Pool struct {
	size     int
	eventBus ports.EventBus
	storage  ports.GroupStorage
	notifier ports.Notifier
	metrics  ports.MetricsCollector
	logger   *zap.Logger
	health   *HealthMonitor

	jobs    chan ports.Notification
	workers []*worker
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
}

// worker represents a single worker goroutine
type worker struct {
	id     string
	pool   *Pool
	status WorkerStatus
	mu     sync.RWMutex
}

// WorkerStatus represents worker status
type WorkerStatus string

const (
	WorkerStatusIdle    WorkerStatus = "idle"
	WorkerStatusBusy    WorkerStatus = "busy"
	WorkerStatusStopped WorkerStatus = "stopped"
)

// NewPool creates a new notification worker pool
func NewPool(
	size int,
	eventBus ports.EventBus,
	storage ports.GroupStorage,
	notifier ports.Notifier,
	metrics ports.MetricsCollector,
	logger *zap.Logger,
	healthCheckInterval time.Duration,
) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	pool := &Pool{
		size:     size,
		eventBus: eventBus,
		storage:  storage,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		jobs:     make(chan ports.Notification, size*4),
		workers:  make([]*worker, size),
		ctx:      ctx,
		cancel:   cancel,
	}

	pool.health = NewHealthMonitor(pool, healthCheckInterval, logger)

	return pool
}

// Start starts the worker pool and subscribes it to group events
func (p *Pool) Start() error {
	p.logger.Info("starting notification worker pool", zap.Int("size", p.size))

	for i := 0; i < p.size; i++ {
		w := &worker{
			id:     fmt.Sprintf("worker-%d", i),
			pool:   p,
			status: WorkerStatusIdle,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(p.ctx)
	}

	if err := p.eventBus.Subscribe(p.ctx, exchange.EventTopic, subscriberName, p.handleGroupEvent); err != nil {
		return fmt.Errorf("failed to subscribe to group events: %w", err)
	}

	p.health.Start()

	p.logger.Info("notification worker pool started", zap.Int("workers", p.size))
	return nil
}

// Shutdown gracefully shuts down the worker pool
func (p *Pool) Shutdown(ctx context.Context) error {
	p.logger.Info("shutting down notification worker pool")

	p.health.Stop()
	p.cancel()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("notification worker pool shut down complete")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout")
	}
}

// GetStatus returns the status of all workers
func (p *Pool) GetStatus() map[string]WorkerStatus {
	status := make(map[string]WorkerStatus)
	for _, w := range p.workers {
		w.mu.RLock()
		status[w.id] = w.status
		w.mu.RUnlock()
	}
	return status
}

// handleGroupEvent fans a completed draw out into per-participant
// notification jobs. All other event types are ignored.
func (p *Pool) handleGroupEvent(ctx context.Context, event domain.Event) error {
	if event.Type != domain.EventTypeDrawCompleted {
		return nil
	}

	group, err := p.storage.Get(ctx, event.GroupID)
	if err != nil {
		return fmt.Errorf("failed to load drawn group: %w", err)
	}

	p.logger.Info("dispatching draw notifications",
		zap.String("group_id", group.ID),
		zap.Int("participants", len(group.Participants)))

	for _, participant := range group.Participants {
		recipient := group.ParticipantByID(group.Assignments[participant.ID])
		if recipient == nil {
			p.logger.Error("assignment references unknown participant",
				zap.String("group_id", group.ID),
				zap.String("participant_id", participant.ID))
			continue
		}

		job := ports.Notification{
			GroupID:       group.ID,
			GroupName:     group.Name,
			Participant:   participant,
			RecipientName: recipient.Name,
		}

		select {
		case p.jobs <- job:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// run is the main worker loop
func (w *worker) run(ctx context.Context) {
	defer w.pool.wg.Done()

	w.pool.logger.Debug("worker started", zap.String("worker_id", w.id))

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.status = WorkerStatusStopped
			w.mu.Unlock()
			w.pool.logger.Debug("worker stopped", zap.String("worker_id", w.id))
			return

		case job := <-w.pool.jobs:
			w.deliver(ctx, job)
		}
	}
}

// deliver sends a single notification and records the outcome
func (w *worker) deliver(ctx context.Context, job ports.Notification) {
	w.mu.Lock()
	w.status = WorkerStatusBusy
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.status = WorkerStatusIdle
		w.mu.Unlock()
	}()

	if err := w.pool.notifier.Notify(ctx, job); err != nil {
		w.pool.metrics.RecordNotification("failed")
		w.pool.logger.Error("failed to deliver notification",
			zap.String("worker_id", w.id),
			zap.String("group_id", job.GroupID),
			zap.String("participant_id", job.Participant.ID),
			zap.Error(err))
		return
	}

	w.pool.metrics.RecordNotification("sent")
	w.pool.logger.Debug("notification delivered",
		zap.String("worker_id", w.id),
		zap.String("group_id", job.GroupID),
		zap.String("participant_id", job.Participant.ID))
}
