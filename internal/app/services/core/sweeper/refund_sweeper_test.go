package sweeper

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePurchaseLister struct {
	contracts.PurchaseRepository
	eligible []models.Purchase
	err      error
}

func (s *fakePurchaseLister) FindEligibleForRefund(ctx context.Context, cutoff time.Time) ([]models.Purchase, error) {
	return s.eligible, s.err
}

type fakePredicate struct {
	responded map[string]bool
	errFor    map[string]error
}

func (p *fakePredicate) HasProviderRespondedAfterPurchase(ctx context.Context, purchaseID string) (bool, error) {
	if err := p.errFor[purchaseID]; err != nil {
		return false, err
	}
	return p.responded[purchaseID], nil
}

func (p *fakePredicate) CountProviderMessagesAfterPurchase(ctx context.Context, purchaseID string) (int, error) {
	if p.responded[purchaseID] {
		return 1, nil
	}
	return 0, nil
}

type fakeExecutor struct {
	mu       sync.Mutex
	refunded []string
	reasons  []string
}

func (e *fakeExecutor) ExecuteRefund(ctx context.Context, purchaseID, reason string) (*contracts.RefundOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refunded = append(e.refunded, purchaseID)
	e.reasons = append(e.reasons, reason)
	return &contracts.RefundOutcome{Applied: true, Amount: 10000}, nil
}

func (e *fakeExecutor) ProviderWarningLevel(ctx context.Context, providerID string) (models.WarningLevel, int64, error) {
	return models.WarningNone, 0, nil
}

type fakeLocker struct {
	mu     sync.Mutex
	held   bool
	denied bool
}

func (l *fakeLocker) TryLock(ctx context.Context, key string, expiration time.Duration) (bool, string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.denied || l.held {
		return false, "", nil
	}
	l.held = true
	return true, "token", nil
}

func (l *fakeLocker) Unlock(ctx context.Context, key, lockValue string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.held = false
	return nil
}

func (l *fakeLocker) Refresh(ctx context.Context, key, lockValue string, expiration time.Duration) error {
	return nil
}

func testPolicy() config.Refund {
	return config.Refund{
		ResponseTimeoutMinutes: 30,
		AutoRefundEnabled:      true,
		SweepEnabled:           true,
		SweepIntervalMs:        10,
	}
}

func newTestSweeper(lister *fakePurchaseLister, predicate *fakePredicate, executor *fakeExecutor, locker *fakeLocker, policy config.Refund) *RefundSweeper {
	return &RefundSweeper{
		PurchaseRepository: lister,
		ResponsePredicate:  predicate,
		RefundExecutor:     executor,
		LockerService:      locker,
		RefundPolicy:       policy,
		Logger:             zap.NewNop(),
		now:                time.Now,
	}
}

func eligiblePurchases(ids ...string) []models.Purchase {
	purchases := make([]models.Purchase, 0, len(ids))
	for _, id := range ids {
		purchases = append(purchases, models.Purchase{
			ID:            id,
			SessionStatus: models.SessionStatusApproved,
			CreatedAt:     time.Now().Add(-time.Hour),
		})
	}
	return purchases
}

func TestSweepOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("refunds unanswered candidates as doctor-no-response", func(t *testing.T) {
		lister := &fakePurchaseLister{eligible: eligiblePurchases("p1", "p2", "p3")}
		predicate := &fakePredicate{responded: map[string]bool{"p2": true}}
		executor := &fakeExecutor{}
		sweeper := newTestSweeper(lister, predicate, executor, &fakeLocker{}, testPolicy())

		sweeper.SweepOnce(ctx)

		assert.ElementsMatch(t, []string{"p1", "p3"}, executor.refunded)
		for _, reason := range executor.reasons {
			assert.Equal(t, constvars.RefundReasonDoctorNoResponse, reason)
		}
	})

	t.Run("a failing candidate does not stall the batch", func(t *testing.T) {
		lister := &fakePurchaseLister{eligible: eligiblePurchases("p1", "p2")}
		predicate := &fakePredicate{errFor: map[string]error{"p1": errors.New("messaging unavailable")}}
		executor := &fakeExecutor{}
		sweeper := newTestSweeper(lister, predicate, executor, &fakeLocker{}, testPolicy())

		sweeper.SweepOnce(ctx)

		assert.Equal(t, []string{"p2"}, executor.refunded)
	})

	t.Run("does nothing without the leader lock", func(t *testing.T) {
		lister := &fakePurchaseLister{eligible: eligiblePurchases("p1")}
		executor := &fakeExecutor{}
		sweeper := newTestSweeper(lister, &fakePredicate{}, executor, &fakeLocker{denied: true}, testPolicy())

		sweeper.SweepOnce(ctx)

		assert.Empty(t, executor.refunded)
	})

	t.Run("releases the leader lock after the pass", func(t *testing.T) {
		locker := &fakeLocker{}
		sweeper := newTestSweeper(&fakePurchaseLister{}, &fakePredicate{}, &fakeExecutor{}, locker, testPolicy())

		sweeper.SweepOnce(ctx)

		locker.mu.Lock()
		defer locker.mu.Unlock()
		assert.False(t, locker.held)
	})

	t.Run("auto refund disabled leaves candidates untouched", func(t *testing.T) {
		policy := testPolicy()
		policy.AutoRefundEnabled = false
		lister := &fakePurchaseLister{eligible: eligiblePurchases("p1")}
		executor := &fakeExecutor{}
		sweeper := newTestSweeper(lister, &fakePredicate{}, executor, &fakeLocker{}, policy)

		sweeper.SweepOnce(ctx)

		assert.Empty(t, executor.refunded)
	})
}

func TestSweeperStartStop(t *testing.T) {
	t.Run("ticks until stopped", func(t *testing.T) {
		lister := &fakePurchaseLister{eligible: eligiblePurchases("p1")}
		executor := &fakeExecutor{}
		sweeper := newTestSweeper(lister, &fakePredicate{}, executor, &fakeLocker{}, testPolicy())

		sweeper.Start(context.Background())
		require.Eventually(t, func() bool {
			executor.mu.Lock()
			defer executor.mu.Unlock()
			return len(executor.refunded) > 0
		}, time.Second, 5*time.Millisecond)
		sweeper.Stop()
	})

	t.Run("disabled sweep never starts the loop", func(t *testing.T) {
		policy := testPolicy()
		policy.SweepEnabled = false
		sweeper := newTestSweeper(&fakePurchaseLister{}, &fakePredicate{}, &fakeExecutor{}, &fakeLocker{}, policy)

		sweeper.Start(context.Background())
		sweeper.Stop()
	})
}
