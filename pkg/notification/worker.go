// Package notification implements the asynchronous half of the fan-out: a
// bounded queue drained by background workers that persist notifications
// derived from completed transactions.
//
// The worker is deliberately decoupled from the mutation path. Enqueue never
// blocks and persistence failures are logged and counted, never propagated.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/xbank/xbank/pkg/domain/account"
	"github.com/xbank/xbank/pkg/repository"
)

// Notifier accepts completed transactions for best-effort notification
// persistence.
type Notifier interface {
	// Enqueue hands tx to the fan-out queue. It reports false when the queue
	// is full and the notification was dropped.
	Enqueue(tx *account.Transaction) bool
}

// Worker is the queue-backed Notifier implementation.
type Worker struct {
	repo     repository.NotificationRepository
	queue    chan *account.Transaction
	logger   *slog.Logger
	wg       sync.WaitGroup
	closing  sync.Once
	failures atomic.Int64
	dropped  atomic.Int64
	saved    atomic.Int64
}

// NewWorker starts workers goroutines draining a queue of queueSize entries.
// Call Close to drain and stop them.
func NewWorker(repo repository.NotificationRepository, queueSize, workers int, logger *slog.Logger) *Worker {
	if queueSize <= 0 {
		queueSize = 256
	}
	if workers <= 0 {
		workers = 1
	}
	w := &Worker{
		repo:   repo,
		queue:  make(chan *account.Transaction, queueSize),
		logger: logger.With("component", "notification_worker"),
	}
	w.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go w.run()
	}
	return w
}

// Enqueue implements Notifier.
func (w *Worker) Enqueue(tx *account.Transaction) bool {
	select {
	case w.queue <- tx:
		return true
	default:
		w.dropped.Add(1)
		w.logger.Warn("notification queue full, dropping",
			"transaction_id", tx.ID, "account", tx.ToAccount)
		return false
	}
}

// Close drains the queue and stops the workers. Enqueue must not be called
// after Close.
func (w *Worker) Close() {
	w.closing.Do(func() { close(w.queue) })
	w.wg.Wait()
}

// Failures returns the number of notification writes that failed.
func (w *Worker) Failures() int64 { return w.failures.Load() }

// Dropped returns the number of notifications dropped on a full queue.
func (w *Worker) Dropped() int64 { return w.dropped.Load() }

// Saved returns the number of notifications persisted.
func (w *Worker) Saved() int64 { return w.saved.Load() }

func (w *Worker) run() {
	defer w.wg.Done()
	for tx := range w.queue {
		n := account.NewTransactionNotification(tx)
		if err := w.repo.Create(context.Background(), n); err != nil {
			w.failures.Add(1)
			w.logger.Error("failed to save notification",
				"transaction_id", tx.ID, "account", n.Account, "error", err)
			continue
		}
		w.saved.Add(1)
		w.logger.Debug("notification saved", "account", n.Account, "title", n.Title)
	}
}
