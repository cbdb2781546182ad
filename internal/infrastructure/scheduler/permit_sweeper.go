package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermitExpirer marks approved permits whose expiration date has passed
// as expired, returning the number of permits transitioned.
type PermitExpirer interface {
	ExpireOverduePermits(ctx context.Context, organizationID uuid.UUID) (int, error)
}

// OrganizationSource lists the organizations the sweep must visit.
type OrganizationSource interface {
	OrganizationsWithApprovedPermits(ctx context.Context) ([]uuid.UUID, error)
}

// PermitSweeper periodically expires overdue permits across all
// organizations that hold approved permits.
type PermitSweeper struct {
	expirer   PermitExpirer
	orgSource OrganizationSource
	logger    *zap.Logger
	config    PermitSweeperConfig
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// PermitSweeperConfig holds configuration for the permit sweeper
type PermitSweeperConfig struct {
	// Enabled determines if the sweeper is active
	Enabled bool

	// Interval is the time between sweep runs
	Interval time.Duration

	// SweepTimeout is the maximum time for a single sweep run
	SweepTimeout time.Duration
}

// DefaultPermitSweeperConfig returns default configuration
func DefaultPermitSweeperConfig() PermitSweeperConfig {
	return PermitSweeperConfig{
		Enabled:      true,
		Interval:     1 * time.Hour,
		SweepTimeout: 5 * time.Minute,
	}
}

// NewPermitSweeper creates a new permit sweeper
func NewPermitSweeper(
	expirer PermitExpirer,
	orgSource OrganizationSource,
	logger *zap.Logger,
	config PermitSweeperConfig,
) *PermitSweeper {
	return &PermitSweeper{
		expirer:   expirer,
		orgSource: orgSource,
		logger:    logger,
		config:    config,
	}
}

// Start starts the background sweep loop
func (s *PermitSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Permit sweeper is disabled")
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Permit sweeper started",
		zap.Duration("interval", s.config.Interval),
	)

	return nil
}

// Stop gracefully stops the sweeper
func (s *PermitSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Permit sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Permit sweeper stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the sweep loop is active
func (s *PermitSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *PermitSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Run once at startup so a restart does not delay overdue expirations
	// by a full interval.
	s.RunSweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunSweep(ctx)
		}
	}
}

// RunSweep performs a single sweep over all organizations with approved
// permits. Failures for one organization do not stop the sweep; they are
// logged and the remaining organizations are still visited.
func (s *PermitSweeper) RunSweep(ctx context.Context) {
	sweepCtx := ctx
	if s.config.SweepTimeout > 0 {
		var cancel context.CancelFunc
		sweepCtx, cancel = context.WithTimeout(ctx, s.config.SweepTimeout)
		defer cancel()
	}

	organizationIDs, err := s.orgSource.OrganizationsWithApprovedPermits(sweepCtx)
	if err != nil {
		s.logger.Error("Failed to list organizations for permit sweep", zap.Error(err))
		return
	}

	if len(organizationIDs) == 0 {
		return
	}

	start := time.Now()
	total := 0
	failures := 0

	for _, organizationID := range organizationIDs {
		count, err := s.expirer.ExpireOverduePermits(sweepCtx, organizationID)
		if err != nil {
			failures++
			s.logger.Error("Permit sweep failed for organization",
				zap.String("organization_id", organizationID.String()),
				zap.Error(err),
			)
			continue
		}
		total += count
	}

	if total > 0 || failures > 0 {
		s.logger.Info("Permit sweep completed",
			zap.Int("organizations", len(organizationIDs)),
			zap.Int("expired", total),
			zap.Int("failures", failures),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
