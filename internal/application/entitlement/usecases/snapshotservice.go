package usecases

import (
	"context"
	"errors"

	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	apperrors "github.com/carelog-health/carelog/internal/shared/errors"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

// SnapshotService is the single entry point for loading entitlement state.
// Every path goes through period rollover before a counter is read, so stale
// daily or monthly usage can never leak into a gate decision.
type SnapshotService struct {
	repo   entitlement.Repository
	cache  EntitlementCache
	logger logger.Interface
}

func NewSnapshotService(
	repo entitlement.Repository,
	cache EntitlementCache,
	logger logger.Interface,
) *SnapshotService {
	return &SnapshotService{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// LoadForRead returns current state for display and gate checks, serving
// from cache when the cached copy needs no rollover. A rolled-over state is
// persisted best-effort; when a concurrent writer wins the version race the
// winner's state is served instead.
func (s *SnapshotService) LoadForRead(ctx context.Context, userID, timezone string) (*entitlement.UserEntitlements, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warnw("entitlement cache read failed", "error", err, "user_id", userID)
		} else if cached != nil && !cached.ApplyRollover(biztime.NowUTC()) {
			return cached, nil
		}
		// Miss, or a period boundary passed since the state was cached:
		// reload from the repository so the reset persists against the
		// latest version.
	}

	u, _, err := s.loadOrCreate(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}

	if u.ApplyRollover(biztime.NowUTC()) {
		if err := s.repo.Save(ctx, u); err != nil {
			if errors.Is(err, entitlement.ErrVersionConflict) {
				// Another request persisted the rollover first; take theirs.
				fresh, ferr := s.repo.FindByUserID(ctx, userID)
				if ferr == nil && fresh != nil {
					fresh.ApplyRollover(biztime.NowUTC())
					u = fresh
				}
			} else {
				s.logger.Warnw("failed to persist rollover", "error", err, "user_id", userID)
			}
		}
	}

	s.CacheStore(ctx, u)
	return u, nil
}

// LoadForUpdate returns current state for mutation, always from the
// repository. Rollover is applied in memory only: the caller's save carries
// the reset and the debit to storage in one version bump, so a denied
// request leaves the stored row byte-identical.
func (s *SnapshotService) LoadForUpdate(ctx context.Context, userID, timezone string) (*entitlement.UserEntitlements, error) {
	u, _, err := s.loadOrCreate(ctx, userID, timezone)
	if err != nil {
		return nil, err
	}
	u.ApplyRollover(biztime.NowUTC())
	return u, nil
}

// CacheStore writes state to the cache, logging instead of failing.
func (s *SnapshotService) CacheStore(ctx context.Context, u *entitlement.UserEntitlements) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, u); err != nil {
		s.logger.Warnw("entitlement cache write failed", "error", err, "user_id", u.UserID())
	}
}

// InvalidateCache drops the cached state for a user.
func (s *SnapshotService) InvalidateCache(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warnw("entitlement cache invalidation failed", "error", err, "user_id", userID)
	}
}

// loadOrCreate fetches the stored record, creating the free-tier default on
// first touch. The created flag reports which happened.
func (s *SnapshotService) loadOrCreate(ctx context.Context, userID, timezone string) (*entitlement.UserEntitlements, bool, error) {
	if userID == "" {
		return nil, false, apperrors.NewValidationError("user ID is required")
	}

	u, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		s.logger.Errorw("failed to load entitlements", "error", err, "user_id", userID)
		return nil, false, apperrors.NewUnavailableError("entitlement storage unavailable")
	}
	if u != nil {
		return u, false, nil
	}

	u, err = entitlement.NewUserEntitlements(userID, timezone)
	if err != nil {
		return nil, false, apperrors.NewValidationError(err.Error())
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if apperrors.IsDuplicateError(err) {
			// Concurrent first touch; the other writer's row wins.
			existing, ferr := s.repo.FindByUserID(ctx, userID)
			if ferr == nil && existing != nil {
				return existing, false, nil
			}
		}
		s.logger.Errorw("failed to create entitlements", "error", err, "user_id", userID)
		return nil, false, apperrors.NewUnavailableError("entitlement storage unavailable")
	}

	s.logger.Infow("entitlements initialized", "user_id", userID, "tier", u.Tier(), "timezone", u.Timezone())
	return u, true, nil
}
