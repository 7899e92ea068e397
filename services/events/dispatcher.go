package events

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// event is one queued publication
type event struct {
	routingKey string
	payload    interface{}
}

// Dispatcher publishes events from a buffered queue on background workers.
// Publish failures are logged and never reach the code that emitted the event.
type Dispatcher struct {
	publisher      Publisher
	logger         *zap.Logger
	queue          chan event
	workerCount    int
	bufferSize     int
	publishTimeout time.Duration
	wg             sync.WaitGroup
	started        bool
	stopped        bool
	mu             sync.RWMutex

	published atomic.Int64
	failed    atomic.Int64
	dropped   atomic.Int64
}

// Config holds configuration for the Dispatcher
type Config struct {
	BufferSize     int           // Size of the event queue
	WorkerCount    int           // Number of concurrent publishers
	PublishTimeout time.Duration // Deadline for a single broker publish
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		BufferSize:     1000,
		WorkerCount:    2,
		PublishTimeout: 5 * time.Second,
	}
}

// NewDispatcher creates a Dispatcher in front of publisher
func NewDispatcher(publisher Publisher, logger *zap.Logger, config Config) *Dispatcher {
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = DefaultConfig().PublishTimeout
	}
	return &Dispatcher{
		publisher:      publisher,
		logger:         logger,
		queue:          make(chan event, config.BufferSize),
		workerCount:    config.WorkerCount,
		bufferSize:     config.BufferSize,
		publishTimeout: config.PublishTimeout,
	}
}

// Start starts the background workers
func (d *Dispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return fmt.Errorf("event dispatcher already started")
	}

	for i := 0; i < d.workerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.started = true
	d.logger.Info("started event dispatcher",
		zap.Int("worker_count", d.workerCount),
		zap.Int("buffer_size", d.bufferSize))

	return nil
}

// Stop drains the queue and waits for the workers up to timeout
func (d *Dispatcher) Stop(timeout time.Duration) error {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return fmt.Errorf("event dispatcher not running")
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()

	d.logger.Info("stopping event dispatcher", zap.Int("pending_events", len(d.queue)))

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("event dispatcher stopped gracefully")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("event dispatcher stop timeout after %v", timeout)
	}
}

// Emit queues an event without blocking. Events are dropped when the queue is full
// or the dispatcher is not running.
func (d *Dispatcher) Emit(routingKey string, payload interface{}) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.started || d.stopped {
		d.dropped.Add(1)
		d.logger.Warn("event dispatcher not running, dropping event", zap.String("routing_key", routingKey))
		return
	}

	select {
	case d.queue <- event{routingKey: routingKey, payload: payload}:
	default:
		d.dropped.Add(1)
		d.logger.Warn("event queue full, dropping event", zap.String("routing_key", routingKey))
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("event worker started", zap.Int("worker_id", id))

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.publishTimeout)
		err := d.publisher.Publish(ctx, ev.routingKey, ev.payload)
		cancel()

		if err != nil {
			d.failed.Add(1)
			d.logger.Error("failed to publish event",
				zap.Int("worker_id", id),
				zap.String("routing_key", ev.routingKey),
				zap.Error(err))
			continue
		}
		d.published.Add(1)
	}

	d.logger.Debug("event worker stopped", zap.Int("worker_id", id))
}

// Stats holds dispatcher counters
type Stats struct {
	Started       bool  `json:"started"`
	PendingEvents int   `json:"pending_events"`
	BufferSize    int   `json:"buffer_size"`
	WorkerCount   int   `json:"worker_count"`
	Published     int64 `json:"published"`
	Failed        int64 `json:"failed"`
	Dropped       int64 `json:"dropped"`
}

// GetStats returns statistics about the dispatcher
func (d *Dispatcher) GetStats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Stats{
		Started:       d.started && !d.stopped,
		PendingEvents: len(d.queue),
		BufferSize:    d.bufferSize,
		WorkerCount:   d.workerCount,
		Published:     d.published.Load(),
		Failed:        d.failed.Load(),
		Dropped:       d.dropped.Load(),
	}
}
