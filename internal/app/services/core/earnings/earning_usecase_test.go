package earnings

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

// hookedTxManager runs before just ahead of the transaction body, standing
// in for a write that commits between usecase entry and the transaction.
type hookedTxManager struct {
	mu     sync.Mutex
	before func()
}

func (m *hookedTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.before != nil {
		m.before()
	}
	return fn(ctx, nil)
}

type fakeEarningStore struct {
	mu       sync.Mutex
	earnings map[string]*models.Earning
}

func newFakeEarningStore() *fakeEarningStore {
	return &fakeEarningStore{earnings: make(map[string]*models.Earning)}
}

func (s *fakeEarningStore) CreateEarningTx(ctx context.Context, tx *sql.Tx, earning *models.Earning) (*models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *earning
	s.earnings[earning.ID] = &copied
	return earning, nil
}

func (s *fakeEarningStore) FindByID(ctx context.Context, earningID string) (*models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earning, ok := s.earnings[earningID]
	if !ok {
		return nil, nil
	}
	copied := *earning
	return &copied, nil
}

func (s *fakeEarningStore) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, earningID string) (*models.Earning, error) {
	return s.FindByID(ctx, earningID)
}

func (s *fakeEarningStore) FindByPurchaseIDTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Earning, error) {
	return s.FindByPurchaseID(ctx, purchaseID)
}

func (s *fakeEarningStore) FindByPurchaseID(ctx context.Context, purchaseID string) (*models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, earning := range s.earnings {
		if earning.PurchaseID == purchaseID {
			copied := *earning
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *fakeEarningStore) MarkConfirmedTx(ctx context.Context, tx *sql.Tx, earningID string, confirmedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	earning := s.earnings[earningID]
	earning.Status = models.EarningConfirmed
	earning.ConfirmedAt = &confirmedAt
	return nil
}

func (s *fakeEarningStore) FindConfirmedByProviderForUpdateTx(ctx context.Context, tx *sql.Tx, providerID string) ([]models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var confirmed []models.Earning
	for _, earning := range s.earnings {
		if earning.ProviderID == providerID && earning.Status == models.EarningConfirmed {
			confirmed = append(confirmed, *earning)
		}
	}
	sort.Slice(confirmed, func(i, j int) bool {
		return confirmed[i].ConfirmedAt.Before(*confirmed[j].ConfirmedAt)
	})
	return confirmed, nil
}

func (s *fakeEarningStore) MarkWithdrawnTx(ctx context.Context, tx *sql.Tx, earningIDs []string, withdrawnAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range earningIDs {
		earning := s.earnings[id]
		if earning.Status == models.EarningConfirmed {
			earning.Status = models.EarningWithdrawn
			earning.WithdrawnAt = &withdrawnAt
		}
	}
	return nil
}

func (s *fakeEarningStore) FindByProvider(ctx context.Context, providerID string) ([]models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []models.Earning
	for _, earning := range s.earnings {
		if earning.ProviderID == providerID {
			result = append(result, *earning)
		}
	}
	return result, nil
}

func (s *fakeEarningStore) SummaryByProvider(ctx context.Context, providerID string) (*models.EarningsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary := &models.EarningsSummary{ProviderID: providerID}
	for _, earning := range s.earnings {
		if earning.ProviderID != providerID {
			continue
		}
		switch earning.Status {
		case models.EarningPending:
			summary.PendingAmount += earning.ProviderAmount
		case models.EarningConfirmed:
			summary.ConfirmedAmount += earning.ProviderAmount
		case models.EarningWithdrawn:
			summary.WithdrawnAmount += earning.ProviderAmount
		}
	}
	return summary, nil
}

type fakePurchaseFinder struct {
	contracts.PurchaseRepository
	purchases map[string]*models.Purchase
}

func (s *fakePurchaseFinder) FindByID(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	purchase, ok := s.purchases[purchaseID]
	if !ok {
		return nil, nil
	}
	copied := *purchase
	return &copied, nil
}

func (s *fakePurchaseFinder) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Purchase, error) {
	return s.FindByID(ctx, purchaseID)
}

func (s *fakePurchaseFinder) MarkSessionCompletedTx(ctx context.Context, tx *sql.Tx, purchaseID string) error {
	s.purchases[purchaseID].SessionStatus = models.SessionStatusCompleted
	return nil
}

type fakePartyStore struct {
	mu      sync.Mutex
	parties map[string]*models.Party
}

func (s *fakePartyStore) FindByID(ctx context.Context, partyID string) (*models.Party, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	party, ok := s.parties[partyID]
	if !ok {
		return nil, nil
	}
	copied := *party
	return &copied, nil
}

func (s *fakePartyStore) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, partyID string) (*models.Party, error) {
	return s.FindByID(ctx, partyID)
}

func (s *fakePartyStore) AddToSpendableWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[partyID].SpendableWallet += delta
	return nil
}

func (s *fakePartyStore) AddToPayoutWalletTx(ctx context.Context, tx *sql.Tx, partyID string, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[partyID].PayoutWallet += delta
	return nil
}

func newTestEarningUsecase(earningStore *fakeEarningStore, purchases map[string]*models.Purchase, parties *fakePartyStore, commission int64) *earningUsecase {
	return &earningUsecase{
		EarningRepository:  earningStore,
		PurchaseRepository: &fakePurchaseFinder{purchases: purchases},
		PartyRepository:    parties,
		TransactionManager: &fakeTxManager{},
		InternalConfig: &config.InternalConfig{
			Earning: config.Earning{CommissionPercentage: commission},
		},
		Logger: zap.NewNop(),
		now:    time.Now,
	}
}

func TestSplitCommission(t *testing.T) {
	t.Run("shares always sum to the total", func(t *testing.T) {
		totals := []int64{1, 3, 99, 100, 101, 9999, 10000, 123457}
		for pct := int64(0); pct <= 100; pct++ {
			for _, total := range totals {
				providerAmount, platformFee := splitCommission(total, pct)
				assert.Equal(t, total, providerAmount+platformFee, "total %d pct %d", total, pct)
				assert.GreaterOrEqual(t, providerAmount, int64(0))
				assert.GreaterOrEqual(t, platformFee, int64(0))
			}
		}
	})

	t.Run("provider share rounds down", func(t *testing.T) {
		providerAmount, platformFee := splitCommission(10001, 70)
		assert.Equal(t, int64(7000), providerAmount)
		assert.Equal(t, int64(3001), platformFee)

		providerAmount, platformFee = splitCommission(100, 33)
		assert.Equal(t, int64(33), providerAmount)
		assert.Equal(t, int64(67), platformFee)
	})
}

func TestCreateEarningFromPurchase(t *testing.T) {
	ctx := context.Background()
	purchase := &models.Purchase{
		ID:         "p1",
		PatientID:  "patient-1",
		ProviderID: "provider-1",
		Amount:     10000,
	}

	t.Run("snapshots the commission split", func(t *testing.T) {
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{"p1": purchase}, &fakePartyStore{}, 70)
		earning, err := uc.CreateEarningFromPurchase(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, "provider-1", earning.ProviderID)
		assert.Equal(t, int64(10000), earning.TotalAmount)
		assert.Equal(t, int64(70), earning.CommissionPercentage)
		assert.Equal(t, int64(7000), earning.ProviderAmount)
		assert.Equal(t, int64(3000), earning.PlatformFee)
		assert.Equal(t, models.EarningPending, earning.Status)
	})

	t.Run("declines refunded purchases", func(t *testing.T) {
		refunded := *purchase
		refunded.Refunded = true
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{"p1": &refunded}, &fakePartyStore{}, 70)
		_, err := uc.CreateEarningFromPurchase(ctx, "p1")
		assert.Error(t, err)
	})

	t.Run("declines duplicate earnings for one purchase", func(t *testing.T) {
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{"p1": purchase}, &fakePartyStore{}, 70)
		_, err := uc.CreateEarningFromPurchase(ctx, "p1")
		require.NoError(t, err)
		_, err = uc.CreateEarningFromPurchase(ctx, "p1")
		assert.Error(t, err)
	})

	t.Run("declines unknown purchases", func(t *testing.T) {
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{}, &fakePartyStore{}, 70)
		_, err := uc.CreateEarningFromPurchase(ctx, "missing")
		assert.Error(t, err)
	})

	t.Run("observes a refund committed just before the transaction", func(t *testing.T) {
		stored := *purchase
		store := newFakeEarningStore()
		uc := newTestEarningUsecase(store, map[string]*models.Purchase{"p1": &stored}, &fakePartyStore{}, 70)
		uc.TransactionManager = &hookedTxManager{before: func() {
			stored.Refunded = true
		}}

		_, err := uc.CreateEarningFromPurchase(ctx, "p1")
		assert.Error(t, err)

		existing, findErr := store.FindByPurchaseID(ctx, "p1")
		require.NoError(t, findErr)
		assert.Nil(t, existing, "no earning may open for a refunded purchase")
	})

	t.Run("closes the session once the purchase is honored", func(t *testing.T) {
		stored := *purchase
		stored.SessionStatus = models.SessionStatusApproved
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{"p1": &stored}, &fakePartyStore{}, 70)

		_, err := uc.CreateEarningFromPurchase(ctx, "p1")
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusCompleted, stored.SessionStatus)
	})
}

func TestConfirmEarning(t *testing.T) {
	ctx := context.Background()
	purchase := &models.Purchase{ID: "p1", PatientID: "patient-1", ProviderID: "provider-1", Amount: 10000}

	t.Run("credits the provider payout wallet once", func(t *testing.T) {
		parties := &fakePartyStore{parties: map[string]*models.Party{
			"provider-1": {ID: "provider-1", Role: models.PartyRoleProvider},
		}}
		uc := newTestEarningUsecase(newFakeEarningStore(), map[string]*models.Purchase{"p1": purchase}, parties, 70)

		earning, err := uc.CreateEarningFromPurchase(ctx, "p1")
		require.NoError(t, err)

		confirmed, err := uc.ConfirmEarning(ctx, earning.ID)
		require.NoError(t, err)
		assert.Equal(t, models.EarningConfirmed, confirmed.Status)
		require.NotNil(t, confirmed.ConfirmedAt)

		provider, _ := parties.FindByID(ctx, "provider-1")
		assert.Equal(t, int64(7000), provider.PayoutWallet)

		_, err = uc.ConfirmEarning(ctx, earning.ID)
		assert.Error(t, err)
		provider, _ = parties.FindByID(ctx, "provider-1")
		assert.Equal(t, int64(7000), provider.PayoutWallet)
	})

	t.Run("unknown earning is an error", func(t *testing.T) {
		uc := newTestEarningUsecase(newFakeEarningStore(), nil, &fakePartyStore{}, 70)
		_, err := uc.ConfirmEarning(ctx, "missing")
		assert.Error(t, err)
	})
}

func TestSettleWithdrawal(t *testing.T) {
	ctx := context.Background()
	store := newFakeEarningStore()
	base := time.Now().UTC().Add(-time.Hour)
	for i, amount := range []int64{3000, 4000, 5000} {
		confirmedAt := base.Add(time.Duration(i) * time.Minute)
		id := []string{"e1", "e2", "e3"}[i]
		store.earnings[id] = &models.Earning{
			ID:             id,
			ProviderID:     "provider-1",
			ProviderAmount: amount,
			Status:         models.EarningConfirmed,
			ConfirmedAt:    &confirmedAt,
		}
	}
	uc := newTestEarningUsecase(store, nil, &fakePartyStore{}, 70)

	// 6000 needs the two oldest earnings (3000+4000); the newest stays
	// confirmed.
	err := uc.SettleWithdrawal(ctx, nil, "provider-1", 6000, time.Now().UTC())
	require.NoError(t, err)

	e1, _ := store.FindByID(ctx, "e1")
	e2, _ := store.FindByID(ctx, "e2")
	e3, _ := store.FindByID(ctx, "e3")
	assert.Equal(t, models.EarningWithdrawn, e1.Status)
	assert.Equal(t, models.EarningWithdrawn, e2.Status)
	assert.Equal(t, models.EarningConfirmed, e3.Status)
}
