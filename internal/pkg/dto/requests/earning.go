package requests

type CreateEarning struct {
	PurchaseID string `json:"purchase_id" validate:"required"`
}
