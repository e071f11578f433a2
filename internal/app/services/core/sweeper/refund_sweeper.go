package sweeper

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/contracts"
	"carepay-service/internal/pkg/constvars"
	"context"
	"time"

	"go.uber.org/zap"
)

// RefundSweeper periodically looks for expired, unanswered purchases and
// funnels them into the refund executor as doctor-no-response refunds.
// A Redis leader lock keeps the sweep single-flight across replicas.
type RefundSweeper struct {
	PurchaseRepository contracts.PurchaseRepository
	ResponsePredicate  contracts.ResponsePredicate
	RefundExecutor     contracts.RefundExecutor
	LockerService      contracts.LockerService
	RefundPolicy       config.Refund
	Logger             *zap.Logger

	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRefundSweeper(
	purchaseRepository contracts.PurchaseRepository,
	responsePredicate contracts.ResponsePredicate,
	refundExecutor contracts.RefundExecutor,
	lockerService contracts.LockerService,
	refundPolicy config.Refund,
	logger *zap.Logger,
) *RefundSweeper {
	return &RefundSweeper{
		PurchaseRepository: purchaseRepository,
		ResponsePredicate:  responsePredicate,
		RefundExecutor:     refundExecutor,
		LockerService:      lockerService,
		RefundPolicy:       refundPolicy,
		Logger:             logger,
		now:                time.Now,
	}
}

func (w *RefundSweeper) Start(ctx context.Context) {
	if !w.RefundPolicy.SweepEnabled {
		w.Logger.Info("refund sweep disabled, worker not started")
		return
	}

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	interval := time.Duration(w.RefundPolicy.SweepIntervalMs) * time.Millisecond

	go func() {
		defer close(w.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		w.Logger.Info("refund sweep worker started",
			zap.Duration("interval", interval),
		)
		for {
			select {
			case <-ctx.Done():
				w.Logger.Info("refund sweep worker stopping")
				return
			case <-ticker.C:
				w.SweepOnce(ctx)
			}
		}
	}()
}

func (w *RefundSweeper) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
}

// SweepOnce runs a single sweep pass. Per-candidate failures are logged
// and skipped so one bad purchase never stalls the rest of the batch.
func (w *RefundSweeper) SweepOnce(ctx context.Context) {
	interval := time.Duration(w.RefundPolicy.SweepIntervalMs) * time.Millisecond
	lockTTL := 2 * interval
	acquired, lockValue, err := w.LockerService.TryLock(ctx, constvars.SweepLeaderLockKey, lockTTL)
	if err != nil {
		w.Logger.Error("refund sweep failed to acquire leader lock",
			zap.Error(err),
		)
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.LockerService.Unlock(ctx, constvars.SweepLeaderLockKey, lockValue); err != nil {
			w.Logger.Warn("refund sweep failed to release leader lock",
				zap.Error(err),
			)
		}
	}()

	cutoff := w.now().UTC().Add(-time.Duration(w.RefundPolicy.ResponseTimeoutMinutes) * time.Minute)
	candidates, err := w.PurchaseRepository.FindEligibleForRefund(ctx, cutoff)
	if err != nil {
		w.Logger.Error("refund sweep failed to load eligible purchases",
			zap.Error(err),
		)
		return
	}
	if len(candidates) == 0 {
		return
	}

	w.Logger.Info("refund sweep pass",
		zap.Int("candidates", len(candidates)),
	)
	for _, purchase := range candidates {
		if err := w.LockerService.Refresh(ctx, constvars.SweepLeaderLockKey, lockValue, lockTTL); err != nil {
			w.Logger.Warn("refund sweep lost leader lock, aborting pass",
				zap.Error(err),
			)
			return
		}

		responded, err := w.ResponsePredicate.HasProviderRespondedAfterPurchase(ctx, purchase.ID)
		if err != nil {
			w.Logger.Warn("refund sweep skipping candidate, response check failed",
				zap.String(constvars.LoggingPurchaseIDKey, purchase.ID),
				zap.Error(err),
			)
			continue
		}
		if responded {
			continue
		}
		if !w.RefundPolicy.AutoRefundEnabled {
			w.Logger.Info("auto refund disabled, leaving eligible purchase untouched",
				zap.String(constvars.LoggingPurchaseIDKey, purchase.ID),
			)
			continue
		}

		outcome, err := w.RefundExecutor.ExecuteRefund(ctx, purchase.ID, constvars.RefundReasonDoctorNoResponse)
		if err != nil {
			w.Logger.Warn("refund sweep candidate failed",
				zap.String(constvars.LoggingPurchaseIDKey, purchase.ID),
				zap.Error(err),
			)
			continue
		}
		if outcome.Applied {
			w.Logger.Info("refund sweep refunded purchase",
				zap.String(constvars.LoggingPurchaseIDKey, purchase.ID),
				zap.Int64(constvars.LoggingRefundAmountKey, outcome.Amount),
			)
		}
	}
}
