package purchases

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/pkg/constvars"
	"context"
	"database/sql"
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

type fakePurchaseStore struct {
	contracts.PurchaseRepository
	mu        sync.Mutex
	purchases map[string]*models.Purchase
}

func newFakePurchaseStore() *fakePurchaseStore {
	return &fakePurchaseStore{purchases: make(map[string]*models.Purchase)}
}

func (s *fakePurchaseStore) CreatePurchaseTx(ctx context.Context, tx *sql.Tx, purchase *models.Purchase) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *purchase
	s.purchases[purchase.ID] = &copied
	return purchase, nil
}

func (s *fakePurchaseStore) CountPurchasesByProviderSince(ctx context.Context, providerID string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, p := range s.purchases {
		if p.ProviderID == providerID && !p.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *fakePurchaseStore) CountRefundsByProviderReasonSince(ctx context.Context, providerID, reason string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, p := range s.purchases {
		if p.ProviderID == providerID && p.Refunded && p.RefundReason != nil && *p.RefundReason == reason {
			count++
		}
	}
	return count, nil
}

func newTestPurchaseUsecase(purchases *fakePurchaseStore, parties *fakePartyStore) *purchaseUsecase {
	return &purchaseUsecase{
		PurchaseRepository: purchases,
		PartyRepository:    parties,
		TransactionManager: &fakeTxManager{},
		InternalConfig: &config.InternalConfig{
			Refund: config.Refund{ResponseTimeoutMinutes: 30},
		},
		Logger: zap.NewNop(),
		now:    time.Now,
	}
}

func twoParties(patientBalance int64) *fakePartyStore {
	return &fakePartyStore{parties: map[string]*models.Party{
		"patient-1":  {ID: "patient-1", Role: models.PartyRolePatient, SpendableWallet: patientBalance},
		"provider-1": {ID: "provider-1", Role: models.PartyRoleProvider},
	}}
}

func TestCreatePurchase(t *testing.T) {
	ctx := context.Background()
	input := &contracts.CreatePurchaseInput{
		SessionID:       "session-1",
		ProviderID:      "provider-1",
		Amount:          10000,
		DurationMinutes: 30,
	}

	t.Run("debits the patient wallet and opens the window", func(t *testing.T) {
		parties := twoParties(15000)
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), parties)

		purchase, err := uc.CreatePurchase(ctx, "patient-1", input)
		require.NoError(t, err)
		assert.NotEmpty(t, purchase.ID)
		assert.Equal(t, models.SessionStatusApproved, purchase.SessionStatus)
		assert.Equal(t, purchase.CreatedAt.Add(30*time.Minute), purchase.ExpiresAt)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Equal(t, int64(5000), patient.SpendableWallet)
	})

	t.Run("declines when the wallet cannot cover the amount", func(t *testing.T) {
		parties := twoParties(9999)
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), parties)

		_, err := uc.CreatePurchase(ctx, "patient-1", input)
		assert.Error(t, err)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Equal(t, int64(9999), patient.SpendableWallet)
	})

	t.Run("declines unknown provider", func(t *testing.T) {
		parties := &fakePartyStore{parties: map[string]*models.Party{
			"patient-1": {ID: "patient-1", SpendableWallet: 15000},
		}}
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), parties)
		_, err := uc.CreatePurchase(ctx, "patient-1", input)
		assert.Error(t, err)
	})

	t.Run("declines unknown patient", func(t *testing.T) {
		parties := &fakePartyStore{parties: map[string]*models.Party{
			"provider-1": {ID: "provider-1"},
		}}
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), parties)
		_, err := uc.CreatePurchase(ctx, "missing", input)
		assert.Error(t, err)
	})

	t.Run("concurrent purchases never overdraw the wallet", func(t *testing.T) {
		parties := twoParties(25000)
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), parties)

		var wg sync.WaitGroup
		succeeded := make(chan struct{}, 8)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := uc.CreatePurchase(ctx, "patient-1", input); err == nil {
					succeeded <- struct{}{}
				}
			}()
		}
		wg.Wait()
		close(succeeded)

		var count int
		for range succeeded {
			count++
		}
		assert.Equal(t, 2, count)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Equal(t, int64(5000), patient.SpendableWallet)
	})
}

func TestProviderResponseRate(t *testing.T) {
	ctx := context.Background()

	t.Run("full rate with no purchases", func(t *testing.T) {
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), twoParties(0))
		rate, err := uc.ProviderResponseRate(ctx, "provider-1")
		require.NoError(t, err)
		assert.Equal(t, 1.0, rate.ResponseRate)
		assert.Zero(t, rate.TotalPurchases)
	})

	t.Run("counts no-response refunds against the provider", func(t *testing.T) {
		store := newFakePurchaseStore()
		now := time.Now().UTC()
		reason := constvars.RefundReasonDoctorNoResponse
		for i, id := range []string{"p1", "p2", "p3", "p4"} {
			purchase := &models.Purchase{
				ID:         id,
				ProviderID: "provider-1",
				CreatedAt:  now.Add(-time.Duration(i) * time.Hour),
			}
			if i == 0 {
				purchase.Refunded = true
				purchase.RefundReason = &reason
				purchase.RefundedAt = &now
			}
			store.purchases[id] = purchase
		}
		uc := newTestPurchaseUsecase(store, twoParties(0))

		rate, err := uc.ProviderResponseRate(ctx, "provider-1")
		require.NoError(t, err)
		assert.Equal(t, int64(4), rate.TotalPurchases)
		assert.Equal(t, int64(1), rate.NoResponseRefunds)
		assert.Equal(t, 0.75, rate.ResponseRate)
	})

	t.Run("unknown provider is an error", func(t *testing.T) {
		uc := newTestPurchaseUsecase(newFakePurchaseStore(), &fakePartyStore{parties: map[string]*models.Party{}})
		_, err := uc.ProviderResponseRate(ctx, "missing")
		assert.Error(t, err)
	})
}
