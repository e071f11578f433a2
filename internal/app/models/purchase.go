package models

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusApproved  SessionStatus = "approved"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Purchase is a paid, time-boxed consultation window. Amount is minor units.
// Refunded transitions false to true exactly once; RefundAmount and
// RefundedAt are set if and only if Refunded is true.
type Purchase struct {
	ID              string        `json:"id"`
	SessionID       string        `json:"session_id"`
	PatientID       string        `json:"patient_id"`
	ProviderID      string        `json:"provider_id"`
	Amount          int64         `json:"amount"`
	DurationMinutes int           `json:"duration_minutes"`
	SessionStatus   SessionStatus `json:"session_status"`
	Refunded        bool          `json:"refunded"`
	RefundAmount    *int64        `json:"refund_amount,omitempty"`
	RefundReason    *string       `json:"refund_reason,omitempty"`
	RefundedAt      *time.Time    `json:"refunded_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	ExpiresAt       time.Time     `json:"expires_at"`
}

type RefundStatistics struct {
	TotalRefunds        int64            `json:"total_refunds"`
	TotalRefundedAmount int64            `json:"total_refunded_amount"`
	RefundsByReason     map[string]int64 `json:"refunds_by_reason"`
}

type ProviderResponseRate struct {
	ProviderID        string  `json:"provider_id"`
	TotalPurchases    int64   `json:"total_purchases"`
	NoResponseRefunds int64   `json:"no_response_refunds"`
	ResponseRate      float64 `json:"response_rate"`
}
