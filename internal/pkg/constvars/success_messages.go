package constvars

const (
	// Generic messages
	ResponseUnknown = "unknown"
	ResponseSuccess = "success"
	ResponseError   = "error"

	// Purchase-related messages
	CreatePurchaseSuccessMessage      = "purchase created successfully"
	GetRefundHistorySuccessMessage    = "get refund history successfully"
	GetEligiblePurchasesSuccess       = "get refund-eligible purchases successfully"
	GetRefundStatisticsSuccessMessage = "get refund statistics successfully"

	// Refund-related messages
	RefundProcessedSuccessMessage   = "refund processed successfully"
	RefundAlreadyProcessedMessage   = "purchase was already refunded, no changes applied"
	GetRefundWarningsSuccessMessage = "get refund warnings successfully"
	GetResponseRateSuccessMessage   = "get response rate statistics successfully"

	// Earning-related messages
	CreateEarningSuccessMessage  = "earning created successfully"
	ConfirmEarningSuccessMessage = "earning confirmed successfully"
	GetEarningsSuccessMessage    = "get earnings successfully"

	// Payout-related messages
	CreatePayoutRequestSuccessMessage   = "payout request created successfully"
	ApprovePayoutRequestSuccessMessage  = "payout request approved successfully"
	RejectPayoutRequestSuccessMessage   = "payout request rejected successfully"
	CancelPayoutRequestSuccessMessage   = "payout request cancelled successfully"
	CompletePayoutRequestSuccessMessage = "payout request completed successfully"
	GetPayoutRequestsSuccessMessage     = "get payout requests successfully"
)
