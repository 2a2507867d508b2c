package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carelog-health/carelog/internal/domain/billing"
	"github.com/carelog-health/carelog/internal/domain/entitlement"
	"github.com/carelog-health/carelog/internal/shared/biztime"
	"github.com/carelog-health/carelog/internal/shared/logger"
)

const testUserID = "usr_2kf8a1"

// seedUser stores a fresh free-tier user, mutated through the domain API so
// anchors stay current and no surprise rollover fires mid-test.
func seedUser(t *testing.T, repo *memEntitlementRepo, mutate func(u *entitlement.UserEntitlements)) *entitlement.UserEntitlements {
	t.Helper()
	u, err := entitlement.NewUserEntitlements(testUserID, "UTC")
	require.NoError(t, err)
	if mutate != nil {
		mutate(u)
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// activatePro puts the user on an active monthly subscription starting now
// and settles the quota anchor on the new billing period.
func activatePro(t *testing.T, u *entitlement.UserEntitlements) {
	t.Helper()
	now := biztime.NowUTC()
	require.NoError(t, u.ApplySubscriptionChange(entitlement.TierPro, entitlement.StatusActive, now, now.AddDate(0, 0, 30), false))
	u.ApplyRollover(now)
}

// memEntitlementRepo is an in-memory entitlement.Repository with the same
// compare-and-swap semantics as the persistence layer: a save only lands
// when the stored row still carries the version the caller loaded.
type memEntitlementRepo struct {
	mu     sync.Mutex
	rows   map[string]entitlement.ReconstructParams
	nextID uint

	findErr   error
	createErr error
	saveErr   error

	// beforeSave runs once before the next Save takes the lock, letting a
	// test interleave a competing write.
	beforeSave func()

	saveCalls int
}

func newMemEntitlementRepo() *memEntitlementRepo {
	return &memEntitlementRepo{rows: make(map[string]entitlement.ReconstructParams)}
}

func entitlementParams(u *entitlement.UserEntitlements) entitlement.ReconstructParams {
	return entitlement.ReconstructParams{
		ID:                      u.ID(),
		UserID:                  u.UserID(),
		Tier:                    u.Tier(),
		Status:                  u.Status(),
		CurrentPeriodStart:      u.CurrentPeriodStart(),
		CurrentPeriodEnd:        u.CurrentPeriodEnd(),
		CancelAtPeriodEnd:       u.CancelAtPeriodEnd(),
		Timezone:                u.Timezone(),
		AIMealPlansUsed:         u.AIMealPlansUsed(),
		AIRecipeSuggestionsUsed: u.AIRecipeSuggestionsUsed(),
		PDFExportsUsed:          u.PDFExportsUsed(),
		BarcodeScansToday:       u.BarcodeScansToday(),
		DayAnchor:               u.DayAnchor(),
		MonthAnchor:             u.MonthAnchor(),
		AITokens:                u.AITokens(),
		ExportTokens:            u.ExportTokens(),
		StreakShields:           u.StreakShields(),
		Version:                 u.Version(),
		CreatedAt:               u.CreatedAt(),
		UpdatedAt:               u.UpdatedAt(),
	}
}

func (r *memEntitlementRepo) FindByUserID(ctx context.Context, userID string) (*entitlement.UserEntitlements, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	if !ok {
		return nil, nil
	}
	return entitlement.ReconstructUserEntitlements(p)
}

func (r *memEntitlementRepo) Create(ctx context.Context, u *entitlement.UserEntitlements) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.UserID()]; ok {
		return errors.New("Duplicate entry '" + u.UserID() + "' for key 'uk_user_id'")
	}
	if u.ID() == 0 {
		r.nextID++
		if err := u.SetID(r.nextID); err != nil {
			return err
		}
	}
	r.rows[u.UserID()] = entitlementParams(u)
	u.MarkPersisted()
	return nil
}

func (r *memEntitlementRepo) Save(ctx context.Context, u *entitlement.UserEntitlements) error {
	if r.beforeSave != nil {
		hook := r.beforeSave
		r.beforeSave = nil
		hook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, ok := r.rows[u.UserID()]
	if !ok || stored.Version != u.StoredVersion() {
		return entitlement.ErrVersionConflict
	}
	r.rows[u.UserID()] = entitlementParams(u)
	u.MarkPersisted()
	return nil
}

func (r *memEntitlementRepo) ListLapsedPro(ctx context.Context, cutoff time.Time, limit int) ([]*entitlement.UserEntitlements, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entitlement.UserEntitlements
	for _, p := range r.rows {
		if len(out) >= limit {
			break
		}
		if p.Tier != entitlement.TierPro || p.CurrentPeriodEnd.IsZero() || !p.CurrentPeriodEnd.Before(cutoff) {
			continue
		}
		u, err := entitlement.ReconstructUserEntitlements(p)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, nil
}

func (r *memEntitlementRepo) snapshot() map[string]entitlement.ReconstructParams {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make(map[string]entitlement.ReconstructParams, len(r.rows))
	for k, v := range r.rows {
		snap[k] = v
	}
	return snap
}

func (r *memEntitlementRepo) restore(snap map[string]entitlement.ReconstructParams) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = snap
}

// storedRow returns the persisted state for assertions, bypassing rollover.
func (r *memEntitlementRepo) storedRow(userID string) (entitlement.ReconstructParams, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[userID]
	return p, ok
}

// memBillingEventRepo is an in-memory billing.Repository. The SID unique
// key is enforced the way the real table does it.
type memBillingEventRepo struct {
	mu     sync.Mutex
	events []*billing.BillingEvent
	bySID  map[string]*billing.BillingEvent
	nextID uint

	createErr error
}

func newMemBillingEventRepo() *memBillingEventRepo {
	return &memBillingEventRepo{bySID: make(map[string]*billing.BillingEvent)}
}

func (r *memBillingEventRepo) Create(ctx context.Context, event *billing.BillingEvent) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[event.SID()]; ok {
		return errors.New("Duplicate entry '" + event.SID() + "' for key 'uk_sid'")
	}
	if event.ID() == 0 {
		r.nextID++
		if err := event.SetID(r.nextID); err != nil {
			return err
		}
	}
	r.bySID[event.SID()] = event
	r.events = append(r.events, event)
	return nil
}

func (r *memBillingEventRepo) GetBySID(ctx context.Context, sid string) (*billing.BillingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bySID[sid], nil
}

func (r *memBillingEventRepo) ListByUserID(ctx context.Context, userID string, limit int) ([]*billing.BillingEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*billing.BillingEvent
	for i := len(r.events) - 1; i >= 0 && len(out) < limit; i-- {
		if r.events[i].UserID() == userID {
			out = append(out, r.events[i])
		}
	}
	return out, nil
}

func (r *memBillingEventRepo) snapshot() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *memBillingEventRepo) restore(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events[n:] {
		delete(r.bySID, e.SID())
	}
	r.events = r.events[:n]
}

// memTxRunner emulates transaction rollback over the in-memory repos:
// when the wrapped function fails, both repos revert to their pre-call
// state.
type memTxRunner struct {
	entRepo   *memEntitlementRepo
	eventRepo *memBillingEventRepo
}

func (t *memTxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	entSnap := t.entRepo.snapshot()
	evtSnap := t.eventRepo.snapshot()
	if err := fn(ctx); err != nil {
		t.entRepo.restore(entSnap)
		t.eventRepo.restore(evtSnap)
		return err
	}
	return nil
}

// memEntitlementCache is an in-memory EntitlementCache recording call
// counts so tests can assert hit, store and invalidation behavior.
type memEntitlementCache struct {
	mu   sync.Mutex
	rows map[string]entitlement.ReconstructParams

	getErr error
	setErr error

	gets          int
	sets          int
	invalidations int
}

func newMemEntitlementCache() *memEntitlementCache {
	return &memEntitlementCache{rows: make(map[string]entitlement.ReconstructParams)}
}

func (c *memEntitlementCache) Get(ctx context.Context, userID string) (*entitlement.UserEntitlements, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	p, ok := c.rows[userID]
	if !ok {
		return nil, nil
	}
	return entitlement.ReconstructUserEntitlements(p)
}

func (c *memEntitlementCache) Set(ctx context.Context, u *entitlement.UserEntitlements) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	c.rows[u.UserID()] = entitlementParams(u)
	return nil
}

func (c *memEntitlementCache) Invalidate(ctx context.Context, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	delete(c.rows, userID)
	return nil
}

type mockLogger struct {
	InfowFunc  func(msg string, keysAndValues ...interface{})
	ErrorwFunc func(msg string, keysAndValues ...interface{})
	WarnwFunc  func(msg string, keysAndValues ...interface{})
	DebugwFunc func(msg string, keysAndValues ...interface{})
}

func (m *mockLogger) Debug(msg string, args ...any) {}
func (m *mockLogger) Info(msg string, args ...any)  {}
func (m *mockLogger) Warn(msg string, args ...any)  {}
func (m *mockLogger) Error(msg string, args ...any) {}
func (m *mockLogger) Fatal(msg string, args ...any) {}

func (m *mockLogger) With(args ...any) logger.Interface  { return m }
func (m *mockLogger) Named(name string) logger.Interface { return m }

func (m *mockLogger) Infow(msg string, keysAndValues ...interface{}) {
	if m.InfowFunc != nil {
		m.InfowFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Errorw(msg string, keysAndValues ...interface{}) {
	if m.ErrorwFunc != nil {
		m.ErrorwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Warnw(msg string, keysAndValues ...interface{}) {
	if m.WarnwFunc != nil {
		m.WarnwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Debugw(msg string, keysAndValues ...interface{}) {
	if m.DebugwFunc != nil {
		m.DebugwFunc(msg, keysAndValues...)
	}
}

func (m *mockLogger) Fatalw(msg string, keysAndValues ...interface{}) {}
