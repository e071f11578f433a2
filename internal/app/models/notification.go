package models

import (
	"time"
)

// NotificationPayload is the shape delivered to a per-party channel.
// Type is REFUND_PROCESSED or DOCTOR_WARNING.
type NotificationPayload struct {
	Type      string    `json:"type"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// NotificationLogEntry is the best-effort delivery audit record.
type NotificationLogEntry struct {
	RecipientID string    `json:"recipient_id" bson:"recipientId"`
	Audience    string    `json:"audience" bson:"audience"`
	Type        string    `json:"type" bson:"type"`
	Amount      int64     `json:"amount" bson:"amount"`
	Reason      string    `json:"reason" bson:"reason"`
	Message     string    `json:"message" bson:"message"`
	DeliveredAt time.Time `json:"delivered_at" bson:"deliveredAt"`
}

type WarningLevel string

const (
	WarningNone     WarningLevel = "none"
	WarningMild     WarningLevel = "mild"
	WarningModerate WarningLevel = "moderate"
	WarningSevere   WarningLevel = "severe"
)
