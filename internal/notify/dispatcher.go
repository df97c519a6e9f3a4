package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

type Config struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	SendTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Workers:     2,
		QueueSize:   256,
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
		SendTimeout: 10 * time.Second,
	}
}

var ErrQueueFull = errors.New("notify: queue full")

// Dispatcher fans queued messages out to a fixed set of workers. Failed
// sends are retried with exponential backoff and dropped (logged) after
// MaxAttempts.
type Dispatcher struct {
	cfg    Config
	sender Sender
	logger *slog.Logger

	queue  chan Message
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu      sync.Mutex
	running bool
}

func NewDispatcher(cfg Config, sender Sender, logger *slog.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		cfg:    cfg,
		sender: sender,
		logger: logger,
		queue:  make(chan Message, cfg.QueueSize),
	}
}

func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return errors.New("notify: dispatcher already running")
	}
	d.running = true

	workerCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.run(workerCtx)
		}()
	}
	return nil
}

// Stop drains nothing: in-flight sends finish, queued messages are dropped.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return nil
	}
	d.running = false
	d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dispatch enqueues without blocking; a full queue is surfaced to the
// caller rather than stalling the request.
func (d *Dispatcher) Dispatch(ctx context.Context, msg Message) error {
	select {
	case d.queue <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(ctx, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	delay := d.cfg.BaseDelay
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		err := d.sendOnce(ctx, msg)
		if err == nil {
			return
		}
		d.logger.Warn("mail send failed", "to", msg.To, "attempt", attempt, "error", err)

		if attempt == d.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		delay *= 2
		if d.cfg.MaxDelay > 0 && delay > d.cfg.MaxDelay {
			delay = d.cfg.MaxDelay
		}
	}
	d.logger.Error("mail dropped after retries", "to", msg.To, "subject", msg.Subject)
}

func (d *Dispatcher) sendOnce(ctx context.Context, msg Message) error {
	if d.cfg.SendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.SendTimeout)
		defer cancel()
	}
	return d.sender.Send(ctx, msg)
}
