package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// BudgetSyncWorker is a background worker that periodically recomputes
// budget spending from transactions
type BudgetSyncWorker struct {
	budgetService *BudgetService
	logger        zerolog.Logger
	interval      time.Duration
	stopCh        chan struct{}
	doneCh        chan struct{}
	mu            sync.Mutex
	running       bool
}

// BudgetSyncWorkerConfig holds configuration for the budget sync worker
type BudgetSyncWorkerConfig struct {
	Interval time.Duration // How often to recompute spending
}

// DefaultBudgetSyncWorkerConfig returns sensible defaults
func DefaultBudgetSyncWorkerConfig() BudgetSyncWorkerConfig {
	return BudgetSyncWorkerConfig{
		Interval: 5 * time.Minute,
	}
}

// NewBudgetSyncWorker creates a new budget sync worker
func NewBudgetSyncWorker(budgetService *BudgetService, logger zerolog.Logger, config BudgetSyncWorkerConfig) *BudgetSyncWorker {
	if config.Interval <= 0 {
		config.Interval = DefaultBudgetSyncWorkerConfig().Interval
	}

	return &BudgetSyncWorker{
		budgetService: budgetService,
		logger:        logger.With().Str("component", "budget_sync").Logger(),
		interval:      config.Interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start begins the background sync
func (w *BudgetSyncWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info().Dur("interval", w.interval).Msg("Starting budget sync worker")

	go w.run(ctx)
}

// Stop gracefully stops the worker and waits for the current run to finish
func (w *BudgetSyncWorker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.logger.Info().Msg("Stopping budget sync worker")
	close(w.stopCh)
	<-w.doneCh
	w.logger.Info().Msg("Budget sync worker stopped")
}

func (w *BudgetSyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	// Run immediately on startup
	w.SyncNow(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.SyncNow(ctx)
		}
	}
}

// SyncNow runs one sync and logs its outcome.
func (w *BudgetSyncWorker) SyncNow(ctx context.Context) (*SyncResult, error) {
	startTime := time.Now()

	result, err := w.budgetService.SyncSpending(ctx)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to sync budget spending")
		return nil, err
	}

	for _, id := range result.OverBudget {
		w.logger.Warn().Str("budget_id", id).Msg("Budget is over its limit")
	}
	w.logger.Info().
		Int("checked", result.Checked).
		Int("updated", result.Updated).
		Int("over_budget", len(result.OverBudget)).
		Dur("elapsed", time.Since(startTime)).
		Msg("Completed budget sync")
	return result, nil
}

// IsRunning returns whether the worker is currently running
func (w *BudgetSyncWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}
