package contracts

import (
	"carepay-service/internal/app/models"
	"context"
)

// RefundOutcome reports whether this invocation applied the refund.
// Applied false with a nil error means another trigger already settled
// the purchase.
type RefundOutcome struct {
	Applied bool  `json:"applied"`
	Amount  int64 `json:"amount"`
}

// RefundExecutor is the single funnel every refund trigger goes through:
// the eligibility sweep, admin force-refunds, patient self-service
// requests and technical-issue refunds.
type RefundExecutor interface {
	ExecuteRefund(ctx context.Context, purchaseID, reason string) (*RefundOutcome, error)
	ProviderWarningLevel(ctx context.Context, providerID string) (models.WarningLevel, int64, error)
}

// ResponsePredicate is the messaging collaborator's view of provider
// activity after a purchase was paid for.
type ResponsePredicate interface {
	HasProviderRespondedAfterPurchase(ctx context.Context, purchaseID string) (bool, error)
	CountProviderMessagesAfterPurchase(ctx context.Context, purchaseID string) (int, error)
}

// SlotHoldService releases the session-capacity hold tied to a purchase's
// session once the purchase is refunded. Best effort.
type SlotHoldService interface {
	ReleaseHold(ctx context.Context, sessionID string) error
}
