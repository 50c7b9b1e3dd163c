package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/tasklist/internal/shared/domain"
	"github.com/felixgeelhaar/tasklist/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig holds configuration for the outbox processor.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration

	// Published messages older than RetentionDays are deleted every CleanupInterval.
	// Either value at zero disables cleanup.
	RetentionDays   int
	CleanupInterval time.Duration
}

// DefaultProcessorConfig returns the defaults used when OUTBOX_* is unset.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     100 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		RetentionDays:    14,
		CleanupInterval:  24 * time.Hour,
	}
}

// Processor relays outbox messages to the broker. A failed publish is retried with
// exponential backoff; the MaxRetries-th failure dead-letters the message.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	now       func() time.Time

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	published atomic.Uint64
	failed    atomic.Uint64
	dead      atomic.Uint64
	cleaned   atomic.Uint64

	statsMu sync.Mutex
	last    lastActivity
}

type lastActivity struct {
	err         string
	errAt       *time.Time
	processedAt *time.Time
	oldestAt    *time.Time
	lag         float64
}

// NewProcessor creates a new outbox processor.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger.With("component", "outbox"),
		now:       time.Now,
	}
}

// Start runs the poll loop in the background until ctx is cancelled or Stop is called.
// Starting a running processor is a no-op.
func (p *Processor) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return nil
	}
	if p.config.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", p.config.PollInterval)
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.loop(runCtx, p.done)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
		"max_retries", p.config.MaxRetries,
	)
	return nil
}

// Stop cancels the poll loop and waits for the in-flight batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether Start has been called without a matching Stop.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Processor) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()

	var cleanup <-chan time.Time
	if p.config.CleanupInterval > 0 && p.config.RetentionDays > 0 {
		t := time.NewTicker(p.config.CleanupInterval)
		defer t.Stop()
		cleanup = t.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			if err := p.ProcessOnce(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("failed to process outbox batch", "error", err)
			}
		case <-cleanup:
			if _, err := p.Cleanup(ctx); err != nil && ctx.Err() == nil {
				p.logger.Error("outbox cleanup failed", "error", err)
			}
		}
	}
}

// ProcessOnce publishes one batch of due messages synchronously. Publish failures are
// recorded on the message and do not fail the batch.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	messages, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.noteError(err)
		return fmt.Errorf("fetch unpublished messages: %w", err)
	}
	p.noteBatch(messages)

	for _, msg := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.deliver(ctx, msg)
	}
	return nil
}

func (p *Processor) deliver(ctx context.Context, msg *Message) {
	if err := p.publisher.Publish(ctx, msg.Envelope()); err != nil {
		p.handleFailure(ctx, msg, err)
		return
	}

	if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
		p.logger.Error("failed to mark message as published", append(messageAttrs(msg), "error", err)...)
		return
	}
	p.published.Add(1)
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, cause error) {
	p.noteError(cause)
	attempt := msg.RetryCount + 1
	attrs := append(messageAttrs(msg), "attempt", attempt, "error", cause)

	if p.config.MaxRetries <= 0 || attempt >= p.config.MaxRetries {
		p.dead.Add(1)
		p.logger.Error("outbox message dead-lettered", attrs...)
		if err := p.repo.MarkDead(ctx, msg.ID, cause.Error()); err != nil {
			p.logger.Error("failed to mark message as dead-lettered", "id", msg.ID, "error", err)
		}
		return
	}

	p.failed.Add(1)
	nextRetryAt := p.now().Add(p.backoff(attempt))
	p.logger.Warn("outbox publish failed, will retry", append(attrs, "next_retry_at", nextRetryAt)...)
	if err := p.repo.MarkFailed(ctx, msg.ID, cause.Error(), nextRetryAt); err != nil {
		p.logger.Error("failed to mark message as failed", "id", msg.ID, "error", err)
	}
}

// backoff returns the wait before retry number attempt: base doubled per prior attempt,
// capped at RetryBackoffMax.
func (p *Processor) backoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	ceiling := p.config.RetryBackoffMax
	if ceiling <= 0 {
		ceiling = time.Minute
	}

	d := base
	for i := 1; i < attempt && d < ceiling; i++ {
		d *= 2
	}
	return min(d, ceiling)
}

// Cleanup deletes published messages older than the retention period.
func (p *Processor) Cleanup(ctx context.Context) (int64, error) {
	deleted, err := p.repo.DeleteOld(ctx, p.config.RetentionDays)
	if err != nil {
		p.noteError(err)
		return 0, fmt.Errorf("delete published messages: %w", err)
	}
	if deleted > 0 {
		p.cleaned.Add(uint64(deleted))
		p.logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", p.config.RetentionDays)
	}
	return deleted, nil
}

// messageAttrs are the log attributes identifying msg and the request that raised it.
func messageAttrs(msg *Message) []any {
	attrs := []any{"id", msg.ID, "event_id", msg.EventID, "routing_key", msg.RoutingKey}

	var metadata domain.EventMetadata
	if len(msg.Metadata) > 0 && json.Unmarshal(msg.Metadata, &metadata) == nil {
		attrs = append(attrs,
			"correlation_id", metadata.CorrelationID,
			"user_id", metadata.UserID.String(),
		)
	}
	return attrs
}

// Stats is a snapshot of processor activity.
type Stats struct {
	IsRunning       bool
	PublishedCount  uint64
	FailedCount     uint64
	DeadCount       uint64
	CleanedCount    uint64
	LagSeconds      float64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
	OldestMessageAt *time.Time
}

// GetStats returns current processor statistics.
func (p *Processor) GetStats() Stats {
	p.statsMu.Lock()
	last := p.last
	p.statsMu.Unlock()

	return Stats{
		IsRunning:       p.IsRunning(),
		PublishedCount:  p.published.Load(),
		FailedCount:     p.failed.Load(),
		DeadCount:       p.dead.Load(),
		CleanedCount:    p.cleaned.Load(),
		LagSeconds:      last.lag,
		LastError:       last.err,
		LastErrorAt:     last.errAt,
		LastProcessedAt: last.processedAt,
		OldestMessageAt: last.oldestAt,
	}
}

func (p *Processor) noteError(err error) {
	now := p.now()
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.last.err = err.Error()
	p.last.errAt = &now
}

// noteBatch records when the batch ran and how far behind its oldest message is.
func (p *Processor) noteBatch(messages []*Message) {
	now := p.now()
	p.statsMu.Lock()
	defer p.statsMu.Unlock()

	p.last.processedAt = &now
	p.last.oldestAt = nil
	p.last.lag = 0
	for _, msg := range messages {
		if p.last.oldestAt == nil || msg.CreatedAt.Before(*p.last.oldestAt) {
			oldest := msg.CreatedAt
			p.last.oldestAt = &oldest
		}
	}
	if p.last.oldestAt != nil {
		p.last.lag = now.Sub(*p.last.oldestAt).Seconds()
	}
}
