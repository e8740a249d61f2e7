// internal/reminder/service.go
package reminder

import (
	"context"
	"errors"
	"sync"
	"time"

	"keyexpiry-workers/internal/common/logger"
	"keyexpiry-workers/internal/common/metrics"
	"keyexpiry-workers/internal/models"
)

// Report summarizes one expiration check run.
type Report struct {
	Scanned    int `json:"scanned"`
	Matched    int `json:"matched"`
	Dispatched int `json:"dispatched"`
	Skipped    int `json:"skipped"`
	Failed     int `json:"failed"`
}

// CheckServiceConfig bounds the per-run concurrency and per-key budget.
type CheckServiceConfig struct {
	WorkerPoolSize int
	KeyTimeout     time.Duration
}

// CheckService is the root orchestrator: scan candidates, apply the
// settings/threshold/ledger gates, dispatch, and commit the ledger. It
// never fails a whole batch; every per-key error is logged and that key
// is retried naturally on the next scheduled run.
type CheckService struct {
	scanner    *Scanner
	settings   SettingsStore
	ledger     LedgerStore
	dispatcher Dispatcher
	clock      Clock
	logger     logger.Logger
	poolSize   int
	keyTimeout time.Duration
}

func NewCheckService(scanner *Scanner, settings SettingsStore, ledger LedgerStore, dispatcher Dispatcher, clock Clock, log logger.Logger, cfg CheckServiceConfig) *CheckService {
	poolSize := cfg.WorkerPoolSize
	if poolSize < 1 {
		poolSize = 1
	}
	keyTimeout := cfg.KeyTimeout
	if keyTimeout <= 0 {
		keyTimeout = 30 * time.Second
	}
	return &CheckService{
		scanner:    scanner,
		settings:   settings,
		ledger:     ledger,
		dispatcher: dispatcher,
		clock:      clock,
		logger:     log.WithFields(map[string]interface{}{"component": "expiration_check"}),
		poolSize:   poolSize,
		keyTimeout: keyTimeout,
	}
}

// CheckExpirations runs the full pipeline over all owners.
func (s *CheckService) CheckExpirations(ctx context.Context) *Report {
	return s.run(ctx, "")
}

// CheckUserExpirations runs the same pipeline scoped to one owner, for
// on-demand re-checks after a settings change.
func (s *CheckService) CheckUserExpirations(ctx context.Context, ownerID string) *Report {
	return s.run(ctx, ownerID)
}

func (s *CheckService) run(ctx context.Context, ownerID string) *Report {
	scope := "all"
	if ownerID != "" {
		scope = "owner"
	}
	started := s.clock.Now()
	now := started
	report := &Report{}

	candidates, err := s.scanner.FindCandidates(ctx, now, ownerID)
	if err != nil {
		s.logger.Error("candidate scan failed", map[string]interface{}{
			"scope": scope,
			"error": err.Error(),
		})
		metrics.ExpirationScans.WithLabelValues(scope).Inc()
		return report
	}

	report.Scanned = len(candidates)
	metrics.CandidatesScanned.Add(float64(len(candidates)))

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.poolSize)
	)

	// Keys are processed concurrently; the check→dispatch→record
	// sequence for one (key, threshold) pair stays inside a single
	// goroutine, and the ledger's unique constraint covers overlap
	// with other runs.
	for _, key := range candidates {
		wg.Add(1)
		sem <- struct{}{}
		go func(key models.APIKey) {
			defer wg.Done()
			defer func() { <-sem }()

			outcome := s.processKey(ctx, key, now)

			mu.Lock()
			switch outcome {
			case outcomeDispatched:
				report.Matched++
				report.Dispatched++
			case outcomeMatchedButFailed:
				report.Matched++
				report.Failed++
			case outcomeSkipped:
				report.Skipped++
			case outcomeError:
				report.Failed++
			}
			mu.Unlock()
		}(key)
	}
	wg.Wait()

	metrics.ExpirationScans.WithLabelValues(scope).Inc()
	metrics.ScanDuration.WithLabelValues(scope).Observe(time.Since(started).Seconds())

	s.logger.Info("expiration check complete", map[string]interface{}{
		"scope":      scope,
		"scanned":    report.Scanned,
		"matched":    report.Matched,
		"dispatched": report.Dispatched,
		"skipped":    report.Skipped,
		"failed":     report.Failed,
	})
	return report
}

type keyOutcome int

const (
	outcomeSkipped keyOutcome = iota
	outcomeDispatched
	outcomeMatchedButFailed
	outcomeError
)

// processKey applies the three gates (settings, threshold membership,
// ledger) and, only when all pass, dispatches and commits the ledger.
func (s *CheckService) processKey(parent context.Context, key models.APIKey, now time.Time) keyOutcome {
	ctx, cancel := context.WithTimeout(parent, s.keyTimeout)
	defer cancel()

	log := s.logger.WithFields(map[string]interface{}{
		"keyId":   key.ID,
		"ownerId": key.OwnerID,
	})

	setting, err := s.settings.GetReminderSetting(ctx, key.OwnerID)
	if err != nil {
		log.Warn("settings lookup failed, key skipped this run", map[string]interface{}{"error": err.Error()})
		return outcomeError
	}
	if setting == nil {
		setting = models.DefaultReminderSetting(key.OwnerID)
	}
	if !setting.Enabled {
		return outcomeSkipped
	}

	days := DaysRemaining(key.ExpiresAt, now)
	if !matchesThreshold(days, setting.ReminderDays) {
		return outcomeSkipped
	}

	reminded, err := s.ledger.HasReminded(ctx, key.ID, days)
	if err != nil {
		log.Warn("ledger lookup failed, key skipped this run", map[string]interface{}{"error": err.Error()})
		return outcomeError
	}
	if reminded {
		return outcomeSkipped
	}

	title, message, data := RenderExpiryWarning(key, days)
	results, err := s.dispatcher.Dispatch(ctx, key.OwnerID, models.EventExpirationWarning, title, message, data)
	if err != nil {
		// All channels failed (or resolution failed): no ledger write,
		// so the next run retries delivery.
		log.Warn("dispatch failed, will retry next run", map[string]interface{}{
			"threshold": days,
			"error":     err.Error(),
		})
		metrics.RemindersDispatched.WithLabelValues("failed").Inc()
		return outcomeMatchedButFailed
	}
	if len(results) == 0 {
		// Explicit suppression via a disabled rule: deliberate no-op,
		// and no ledger write either.
		return outcomeSkipped
	}

	if err := s.ledger.RecordReminder(ctx, key.ID, days, s.clock.Now()); err != nil {
		if errors.Is(err, ErrAlreadyReminded) {
			// A concurrent run won the insert race; the constraint did
			// its job.
			log.Info("reminder already recorded by concurrent run", map[string]interface{}{"threshold": days})
			metrics.RemindersDispatched.WithLabelValues("duplicate").Inc()
			return outcomeDispatched
		}
		log.Error("ledger write failed after successful dispatch", map[string]interface{}{
			"threshold": days,
			"error":     err.Error(),
		})
		return outcomeMatchedButFailed
	}

	metrics.RemindersDispatched.WithLabelValues("sent").Inc()
	return outcomeDispatched
}
