package requests

type ForceRefund struct {
	Reason string `json:"reason" validate:"required,refund_reason"`
}

type RequestRefund struct {
	PurchaseID string `json:"purchase_id" validate:"required"`
}
