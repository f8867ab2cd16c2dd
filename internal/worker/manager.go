package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"moodshare/internal/queue"
)

const (
	// DefaultWorkerCount is the default number of worker goroutines.
	DefaultWorkerCount = 2

	// DefaultBatchSize is the number of messages to read per batch.
	DefaultBatchSize = 10

	// DefaultBlockTimeout is how long to block waiting for new messages.
	DefaultBlockTimeout = 5 * time.Second
)

// Manager orchestrates worker goroutines that consume the mail stream and
// deliver queued email.
type Manager struct {
	consumer    queue.Consumer
	handler     *Handler
	workerCount int
	batchSize   int64
	blockTime   time.Duration

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// ManagerConfig holds configuration for the worker manager.
type ManagerConfig struct {
	WorkerCount  int
	BatchSize    int64
	BlockTimeout time.Duration
}

// NewManager creates a worker manager. Zero config fields fall back to
// defaults.
func NewManager(consumer queue.Consumer, handler *Handler, cfg ManagerConfig) *Manager {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = DefaultWorkerCount
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BlockTimeout <= 0 {
		cfg.BlockTimeout = DefaultBlockTimeout
	}

	return &Manager{
		consumer:    consumer,
		handler:     handler,
		workerCount: cfg.WorkerCount,
		batchSize:   cfg.BatchSize,
		blockTime:   cfg.BlockTimeout,
	}
}

// Start begins the worker goroutines. Call Stop to shut down.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx, m.cancel = context.WithCancel(ctx)

	if err := m.consumer.EnsureGroup(m.ctx, queue.StreamMail, queue.ConsumerGroupMail); err != nil {
		return err
	}

	for i := 0; i < m.workerCount; i++ {
		workerID := i + 1
		consumerName := fmt.Sprintf("mail-worker-%d", workerID)

		m.wg.Add(1)
		go m.runWorker(workerID, consumerName)
	}

	log.Info().Int("workers", m.workerCount).Str("stream", queue.StreamMail).
		Msg("mail workers started")
	return nil
}

// Stop shuts down all workers and blocks until they finish.
func (m *Manager) Stop() {
	m.cancel()
	m.wg.Wait()
	log.Info().Msg("mail workers stopped")
}

func (m *Manager) runWorker(workerID int, consumerName string) {
	defer m.wg.Done()

	// Recover messages that were in flight when a previous run died.
	m.processPending(workerID, consumerName)

	for {
		select {
		case <-m.ctx.Done():
			return
		default:
			m.processMessages(workerID, consumerName)
		}
	}
}

func (m *Manager) processPending(workerID int, consumerName string) {
	for {
		messages, err := m.consumer.ReadPending(m.ctx, queue.StreamMail, queue.ConsumerGroupMail, consumerName, m.batchSize)
		if err != nil {
			log.Error().Int("worker", workerID).Err(err).Msg("failed to read pending mail")
			return
		}
		if len(messages) == 0 {
			return
		}
		m.handleMessages(workerID, messages)
	}
}

func (m *Manager) processMessages(workerID int, consumerName string) {
	messages, err := m.consumer.Read(
		m.ctx,
		queue.StreamMail,
		queue.ConsumerGroupMail,
		consumerName,
		m.batchSize,
		m.blockTime,
	)
	if err != nil {
		if m.ctx.Err() != nil {
			return
		}
		log.Error().Int("worker", workerID).Err(err).Msg("failed to read mail stream")
		time.Sleep(time.Second)
		return
	}
	if len(messages) == 0 {
		return
	}
	m.handleMessages(workerID, messages)
}

// handleMessages processes a batch and acknowledges every message, even on
// handler error, so a permanently bad job cannot wedge the stream.
func (m *Manager) handleMessages(workerID int, messages []queue.Message) {
	for _, msg := range messages {
		if err := m.handler.HandleEvent(m.ctx, msg.Event); err != nil {
			log.Error().Int("worker", workerID).Str("msg_id", msg.ID).Err(err).
				Msg("mail delivery failed")
		}
		if err := m.consumer.Ack(m.ctx, queue.StreamMail, queue.ConsumerGroupMail, msg.ID); err != nil {
			log.Error().Int("worker", workerID).Str("msg_id", msg.ID).Err(err).
				Msg("failed to ack mail message")
		}
	}
}
