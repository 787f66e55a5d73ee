package services

import (
	"context"
	"time"

	"hockey-pool-go/logging"
)

// SyncScheduler runs the feed synchronization pass on a fixed interval.
// Passes are re-entrant safe: a manual admin-triggered sync overlapping a
// scheduled one cannot double-score predictions because the evaluated-flag
// compare-and-set in the evaluation pipeline is the single idempotency
// gate.
type SyncScheduler struct {
	resultService *ResultService
	interval      time.Duration
	ticker        *time.Ticker
	stopChan      chan struct{}
	running       bool
	logger        *logging.Logger
}

// NewSyncScheduler creates a new scheduler
func NewSyncScheduler(resultService *ResultService, interval time.Duration) *SyncScheduler {
	return &SyncScheduler{
		resultService: resultService,
		interval:      interval,
		stopChan:      make(chan struct{}),
		logger:        logging.WithPrefix("SyncScheduler"),
	}
}

// Start begins periodic synchronization, with an initial pass right away
func (s *SyncScheduler) Start() {
	if s.running {
		s.logger.Warn("Already running")
		return
	}

	s.logger.Infof("Starting feed synchronization every %v", s.interval)
	s.running = true
	s.ticker = time.NewTicker(s.interval)

	go s.runPass()

	go func() {
		for {
			select {
			case <-s.ticker.C:
				go s.runPass()
			case <-s.stopChan:
				s.logger.Info("Stopping feed synchronization")
				return
			}
		}
	}()
}

// Stop halts periodic synchronization
func (s *SyncScheduler) Stop() {
	if !s.running {
		return
	}
	s.running = false

	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopChan)
}

// IsRunning reports whether the scheduler is active
func (s *SyncScheduler) IsRunning() bool {
	return s.running
}

// runPass executes one sync cycle. A failed cycle is logged and retried on
// the next tick; nothing within the cycle is rolled back.
func (s *SyncScheduler) runPass() {
	start := time.Now()

	if err := s.resultService.SyncResults(context.Background()); err != nil {
		s.logger.Errorf("Sync pass failed, will retry next cycle: %v", err)
		return
	}

	s.logger.Debugf("Sync pass finished in %v", time.Since(start))
}
