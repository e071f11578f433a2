package requests

type CreatePurchase struct {
	SessionID       string `json:"session_id" validate:"required"`
	ProviderID      string `json:"provider_id" validate:"required"`
	Amount          int64  `json:"amount" validate:"required,gt=0"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gt=0"`
}
