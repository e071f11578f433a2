package refunds

import (
	"carepay-service/internal/app/config"
	"carepay-service/internal/app/models"
)

// bandWarningLevel maps a trailing-window no-response refund count to the
// highest severity whose threshold the count has reached.
func bandWarningLevel(count int64, thresholds config.WarningThresholds) models.WarningLevel {
	switch {
	case count >= thresholds.Severe:
		return models.WarningSevere
	case count >= thresholds.Moderate:
		return models.WarningModerate
	case count >= thresholds.Mild:
		return models.WarningMild
	default:
		return models.WarningNone
	}
}
