package responses

import (
	"carepay-service/internal/app/models"
)

type RefundOutcome struct {
	Applied bool  `json:"applied"`
	Amount  int64 `json:"amount"`
}

type RefundWarnings struct {
	ProviderID      string                        `json:"provider_id"`
	WarningLevel    models.WarningLevel           `json:"warning_level"`
	NoResponseCount int64                         `json:"no_response_count"`
	RecentWarnings  []models.NotificationLogEntry `json:"recent_warnings"`
	TrailingDays    int                           `json:"trailing_days"`
}
