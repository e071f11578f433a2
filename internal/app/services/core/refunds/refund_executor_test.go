package refunds

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/app/models"
	"carepay-service/internal/app/services/core/earnings"
	"carepay-service/internal/pkg/constvars"
	"carepay-service/internal/pkg/exceptions"
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeTxManager serializes callbacks the way row locks serialize real
// transactions.
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, nil)
}

type fakePurchaseStore struct {
	mu        sync.Mutex
	purchases map[string]*models.Purchase
}

func newFakePurchaseStore(purchases ...*models.Purchase) *fakePurchaseStore {
	store := &fakePurchaseStore{purchases: make(map[string]*models.Purchase)}
	for _, p := range purchases {
		copied := *p
		store.purchases[p.ID] = &copied
	}
	return store
}

func (s *fakePurchaseStore) CreatePurchaseTx(ctx context.Context, tx *sql.Tx, purchase *models.Purchase) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *purchase
	s.purchases[purchase.ID] = &copied
	return purchase, nil
}

func (s *fakePurchaseStore) FindByID(ctx context.Context, purchaseID string) (*models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchase, ok := s.purchases[purchaseID]
	if !ok {
		return nil, nil
	}
	copied := *purchase
	return &copied, nil
}

func (s *fakePurchaseStore) FindByIDForUpdateTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Purchase, error) {
	return s.FindByID(ctx, purchaseID)
}

func (s *fakePurchaseStore) MarkRefundedTx(ctx context.Context, tx *sql.Tx, input contracts.MarkRefundedInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	purchase := s.purchases[input.PurchaseID]
	purchase.Refunded = true
	purchase.RefundAmount = &input.RefundAmount
	purchase.RefundReason = &input.RefundReason
	purchase.RefundedAt = &input.RefundedAt
	return nil
}

func (s *fakePurchaseStore) MarkSessionCompletedTx(ctx context.Context, tx *sql.Tx, purchaseID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[purchaseID].SessionStatus = models.SessionStatusCompleted
	return nil
}

func (s *fakePurchaseStore) FindEligibleForRefund(ctx context.Context, cutoff time.Time) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var eligible []models.Purchase
	for _, p := range s.purchases {
		if !p.Refunded && p.CreatedAt.Before(cutoff) &&
			(p.SessionStatus == models.SessionStatusApproved || p.SessionStatus == models.SessionStatusActive) {
			eligible = append(eligible, *p)
		}
	}
	return eligible, nil
}

func (s *fakePurchaseStore) FindRefundedByPatient(ctx context.Context, patientID string) ([]models.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var refunded []models.Purchase
	for _, p := range s.purchases {
		if p.PatientID == patientID && p.Refunded {
			refunded = append(refunded, *p)
		}
	}
	return refunded, nil
}

func (s *fakePurchaseStore) CountRefundsByProviderReasonSince(ctx context.Context, providerID, reason string, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, p := range s.purchases {
		if p.ProviderID == providerID && p.Refunded && p.RefundReason != nil && *p.RefundReason == reason && !p.RefundedAt.Before(since) {
			count++
		}
	}
	return count, nil
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

func (s *fakePurchaseStore) RefundStatistics(ctx context.Context) (*models.RefundStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.RefundStatistics{RefundsByReason: make(map[string]int64)}
	for _, p := range s.purchases {
		if p.Refunded {
			stats.TotalRefunds++
			stats.TotalRefundedAmount += *p.RefundAmount
			stats.RefundsByReason[*p.RefundReason]++
		}
	}
	return stats, nil
}

type fakePartyStore struct {
	mu      sync.Mutex
	parties map[string]*models.Party
}

func newFakePartyStore(parties ...*models.Party) *fakePartyStore {
	store := &fakePartyStore{parties: make(map[string]*models.Party)}
	for _, p := range parties {
		copied := *p
		store.parties[p.ID] = &copied
	}
	return store
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

// fakeEarningLedger keys earnings by purchase and mirrors the unique
// purchase constraint on insert.
type fakeEarningLedger struct {
	contracts.EarningRepository
	mu         sync.Mutex
	byPurchase map[string]*models.Earning
}

func newFakeEarningLedger(earnings ...*models.Earning) *fakeEarningLedger {
	ledger := &fakeEarningLedger{byPurchase: make(map[string]*models.Earning)}
	for _, e := range earnings {
		copied := *e
		ledger.byPurchase[e.PurchaseID] = &copied
	}
	return ledger
}

func (s *fakeEarningLedger) FindByPurchaseIDTx(ctx context.Context, tx *sql.Tx, purchaseID string) (*models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	earning, ok := s.byPurchase[purchaseID]
	if !ok {
		return nil, nil
	}
	copied := *earning
	return &copied, nil
}

func (s *fakeEarningLedger) CreateEarningTx(ctx context.Context, tx *sql.Tx, earning *models.Earning) (*models.Earning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byPurchase[earning.PurchaseID]; exists {
		return nil, exceptions.ErrEarningAlreadyExists(nil)
	}
	copied := *earning
	s.byPurchase[earning.PurchaseID] = &copied
	return earning, nil
}

type fakeSlotHolder struct {
	mu       sync.Mutex
	released []string
}

func (s *fakeSlotHolder) ReleaseHold(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = append(s.released, sessionID)
	return nil
}

type fakeSink struct {
	mu       sync.Mutex
	patient  []models.NotificationPayload
	provider []models.NotificationPayload
}

func (s *fakeSink) NotifyPatient(ctx context.Context, patientID string, payload models.NotificationPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patient = append(s.patient, payload)
	return nil
}

func (s *fakeSink) NotifyProvider(ctx context.Context, providerID string, payload models.NotificationPayload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = append(s.provider, payload)
	return nil
}

func testRefundPolicy() config.Refund {
	return config.Refund{
		ResponseTimeoutMinutes: 30,
		AutoRefundEnabled:      true,
		SweepEnabled:           true,
		SweepIntervalMs:        600000,
		Percentages: map[string]int64{
			constvars.RefundReasonDoctorNoResponse: 100,
			constvars.RefundReasonManualAdmin:      100,
			constvars.RefundReasonPatientRequest:   80,
			constvars.RefundReasonTechnicalIssue:   100,
			constvars.RefundReasonDefault:          50,
		},
		WarningThresholds: config.WarningThresholds{
			Mild:     3,
			Moderate: 5,
			Severe:   8,
		},
	}
}

func newTestExecutor(purchases *fakePurchaseStore, parties *fakePartyStore, slots *fakeSlotHolder, sink *fakeSink) *refundExecutor {
	return &refundExecutor{
		PurchaseRepository: purchases,
		PartyRepository:    parties,
		EarningRepository:  newFakeEarningLedger(),
		TransactionManager: &fakeTxManager{},
		SlotHoldService:    slots,
		NotificationSink:   sink,
		RefundPolicy:       testRefundPolicy(),
		Logger:             zap.NewNop(),
		now:                time.Now,
	}
}

func testPurchase(id string) *models.Purchase {
	return &models.Purchase{
		ID:              id,
		SessionID:       "session-" + id,
		PatientID:       "patient-1",
		ProviderID:      "provider-1",
		Amount:          10000,
		DurationMinutes: 30,
		SessionStatus:   models.SessionStatusApproved,
		CreatedAt:       time.Now().Add(-time.Hour),
		ExpiresAt:       time.Now().Add(-30 * time.Minute),
	}
}

func TestExecuteRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("credits patient and stamps the purchase", func(t *testing.T) {
		purchases := newFakePurchaseStore(testPurchase("p1"))
		parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
		slots := &fakeSlotHolder{}
		sink := &fakeSink{}
		executor := newTestExecutor(purchases, parties, slots, sink)

		outcome, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonDoctorNoResponse)
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
		assert.Equal(t, int64(10000), outcome.Amount)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Equal(t, int64(10000), patient.SpendableWallet)

		refunded, _ := purchases.FindByID(ctx, "p1")
		assert.True(t, refunded.Refunded)
		require.NotNil(t, refunded.RefundAmount)
		assert.Equal(t, int64(10000), *refunded.RefundAmount)
		assert.Equal(t, constvars.RefundReasonDoctorNoResponse, *refunded.RefundReason)

		assert.Equal(t, []string{"session-p1"}, slots.released)
		require.Len(t, sink.patient, 1)
		assert.Equal(t, constvars.NotificationTypeRefundProcessed, sink.patient[0].Type)
	})

	t.Run("unknown purchase is a not-found error", func(t *testing.T) {
		executor := newTestExecutor(newFakePurchaseStore(), newFakePartyStore(), &fakeSlotHolder{}, &fakeSink{})
		outcome, err := executor.ExecuteRefund(ctx, "missing", constvars.RefundReasonManualAdmin)
		assert.Error(t, err)
		assert.Nil(t, outcome)
	})

	t.Run("second trigger observes the settled purchase", func(t *testing.T) {
		purchases := newFakePurchaseStore(testPurchase("p1"))
		parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
		executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, &fakeSink{})

		first, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonTechnicalIssue)
		require.NoError(t, err)
		assert.True(t, first.Applied)

		second, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonManualAdmin)
		require.NoError(t, err)
		assert.False(t, second.Applied)
		assert.Zero(t, second.Amount)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Equal(t, int64(10000), patient.SpendableWallet)
	})

	t.Run("declines a purchase that has been honored", func(t *testing.T) {
		purchases := newFakePurchaseStore(testPurchase("p1"))
		parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
		executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, &fakeSink{})
		executor.EarningRepository = newFakeEarningLedger(&models.Earning{
			ID:         "e1",
			PurchaseID: "p1",
			ProviderID: "provider-1",
			Status:     models.EarningConfirmed,
		})

		outcome, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonPatientRequest)
		assert.Nil(t, outcome)
		var customErr *exceptions.CustomError
		require.ErrorAs(t, err, &customErr)
		assert.Equal(t, constvars.StatusConflict, customErr.StatusCode)

		patient, _ := parties.FindByID(ctx, "patient-1")
		assert.Zero(t, patient.SpendableWallet)
		settled, _ := purchases.FindByID(ctx, "p1")
		assert.False(t, settled.Refunded)
	})

	t.Run("concurrent triggers apply exactly once", func(t *testing.T) {
		purchases := newFakePurchaseStore(testPurchase("p1"))
		parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
		executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, &fakeSink{})

		const triggers = 16
		var wg sync.WaitGroup
		applied := make(chan int64, triggers)
		reasons := []string{
			constvars.RefundReasonDoctorNoResponse,
			constvars.RefundReasonManualAdmin,
			constvars.RefundReasonPatientRequest,
			constvars.RefundReasonTechnicalIssue,
		}
		for i := 0; i < triggers; i++ {
			wg.Add(1)
			go func(reason string) {
				defer wg.Done()
				outcome, err := executor.ExecuteRefund(ctx, "p1", reason)
				if err == nil && outcome.Applied {
					applied <- outcome.Amount
				}
			}(reasons[i%len(reasons)])
		}
		wg.Wait()
		close(applied)

		var appliedCount int
		for range applied {
			appliedCount++
		}
		assert.Equal(t, 1, appliedCount)

		patient, _ := parties.FindByID(ctx, "patient-1")
		refunded, _ := purchases.FindByID(ctx, "p1")
		assert.Equal(t, *refunded.RefundAmount, patient.SpendableWallet)
	})
}

func TestRefundAndHonorAreExclusive(t *testing.T) {
	ctx := context.Background()

	// The refund funnel and earning creation race on the same purchase;
	// the shared purchase row lock must let exactly one terminal outcome
	// through, in either arrival order.
	for round := 0; round < 20; round++ {
		purchases := newFakePurchaseStore(testPurchase("p1"))
		parties := newFakePartyStore(
			&models.Party{ID: "patient-1", Role: models.PartyRolePatient},
			&models.Party{ID: "provider-1", Role: models.PartyRoleProvider},
		)
		ledger := newFakeEarningLedger()
		txManager := &fakeTxManager{}
		executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, &fakeSink{})
		executor.EarningRepository = ledger
		executor.TransactionManager = txManager
		honorer := earnings.NewEarningUsecase(ledger, purchases, parties, txManager, &config.InternalConfig{
			Earning: config.Earning{CommissionPercentage: 70},
		}, zap.NewNop())

		var wg sync.WaitGroup
		var refundApplied, earningCreated bool
		wg.Add(2)
		go func() {
			defer wg.Done()
			outcome, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonManualAdmin)
			refundApplied = err == nil && outcome.Applied
		}()
		go func() {
			defer wg.Done()
			_, err := honorer.CreateEarningFromPurchase(ctx, "p1")
			earningCreated = err == nil
		}()
		wg.Wait()

		require.NotEqual(t, refundApplied, earningCreated, "round %d: exactly one outcome must win", round)

		patient, _ := parties.FindByID(ctx, "patient-1")
		settled, _ := purchases.FindByID(ctx, "p1")
		earning, _ := ledger.FindByPurchaseIDTx(ctx, nil, "p1")
		if refundApplied {
			assert.True(t, settled.Refunded)
			assert.Equal(t, int64(10000), patient.SpendableWallet)
			assert.Nil(t, earning)
		} else {
			assert.False(t, settled.Refunded)
			assert.Zero(t, patient.SpendableWallet)
			require.NotNil(t, earning)
			assert.Equal(t, models.SessionStatusCompleted, settled.SessionStatus)
		}
	}
}

func TestRefundPercentages(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		reason   string
		expected int64
	}{
		{constvars.RefundReasonDoctorNoResponse, 10000},
		{constvars.RefundReasonManualAdmin, 10000},
		{constvars.RefundReasonPatientRequest, 8000},
		{constvars.RefundReasonTechnicalIssue, 10000},
		{"unknown-reason", 5000},
	}

	for _, tc := range testCases {
		t.Run(tc.reason, func(t *testing.T) {
			purchases := newFakePurchaseStore(testPurchase("p1"))
			parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
			executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, &fakeSink{})

			outcome, err := executor.ExecuteRefund(ctx, "p1", tc.reason)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, outcome.Amount)

			patient, _ := parties.FindByID(ctx, "patient-1")
			assert.Equal(t, tc.expected, patient.SpendableWallet)
		})
	}
}

func TestProviderWarningLevel(t *testing.T) {
	ctx := context.Background()

	seedRefunds := func(count int) *fakePurchaseStore {
		store := newFakePurchaseStore()
		now := time.Now().UTC()
		reason := constvars.RefundReasonDoctorNoResponse
		for i := 0; i < count; i++ {
			id := string(rune('a' + i))
			amount := int64(10000)
			store.purchases[id] = &models.Purchase{
				ID:           id,
				PatientID:    "patient-1",
				ProviderID:   "provider-1",
				Amount:       amount,
				Refunded:     true,
				RefundAmount: &amount,
				RefundReason: &reason,
				RefundedAt:   &now,
			}
		}
		return store
	}

	testCases := []struct {
		count    int
		expected models.WarningLevel
	}{
		{0, models.WarningNone},
		{2, models.WarningNone},
		{3, models.WarningMild},
		{4, models.WarningMild},
		{5, models.WarningModerate},
		{6, models.WarningModerate},
		{7, models.WarningModerate},
		{8, models.WarningSevere},
		{12, models.WarningSevere},
	}

	for _, tc := range testCases {
		executor := newTestExecutor(seedRefunds(tc.count), newFakePartyStore(), &fakeSlotHolder{}, &fakeSink{})
		level, count, err := executor.ProviderWarningLevel(ctx, "provider-1")
		require.NoError(t, err)
		assert.Equal(t, int64(tc.count), count)
		assert.Equal(t, tc.expected, level, "count %d", tc.count)
	}
}

func TestNoResponseRefundWarnsProvider(t *testing.T) {
	ctx := context.Background()

	// Provider already carries enough recent no-response refunds to cross
	// the mild threshold once this refund lands.
	purchases := newFakePurchaseStore(testPurchase("p1"))
	now := time.Now().UTC()
	reason := constvars.RefundReasonDoctorNoResponse
	for _, id := range []string{"old1", "old2"} {
		amount := int64(5000)
		purchases.purchases[id] = &models.Purchase{
			ID:           id,
			PatientID:    "patient-2",
			ProviderID:   "provider-1",
			Amount:       amount,
			Refunded:     true,
			RefundAmount: &amount,
			RefundReason: &reason,
			RefundedAt:   &now,
		}
	}
	parties := newFakePartyStore(&models.Party{ID: "patient-1", Role: models.PartyRolePatient})
	sink := &fakeSink{}
	executor := newTestExecutor(purchases, parties, &fakeSlotHolder{}, sink)

	outcome, err := executor.ExecuteRefund(ctx, "p1", constvars.RefundReasonDoctorNoResponse)
	require.NoError(t, err)
	require.True(t, outcome.Applied)

	require.Len(t, sink.provider, 1)
	assert.Equal(t, constvars.NotificationTypeDoctorWarning, sink.provider[0].Type)
}

func TestBandWarningLevel(t *testing.T) {
	thresholds := config.WarningThresholds{Mild: 3, Moderate: 5, Severe: 8}
	assert.Equal(t, models.WarningNone, bandWarningLevel(0, thresholds))
	assert.Equal(t, models.WarningMild, bandWarningLevel(3, thresholds))
	assert.Equal(t, models.WarningModerate, bandWarningLevel(6, thresholds))
	assert.Equal(t, models.WarningSevere, bandWarningLevel(8, thresholds))
}
