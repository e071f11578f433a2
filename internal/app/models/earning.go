package models

import (
	"time"
)

type EarningStatus string

const (
	EarningPending   EarningStatus = "pending"
	EarningConfirmed EarningStatus = "confirmed"
	EarningWithdrawn EarningStatus = "withdrawn"
)

// Earning is the provider commission record cut from a non-refunded,
// completed purchase. CommissionPercentage is snapshotted at creation and
// immune to later policy changes. ProviderAmount + PlatformFee always
// equals TotalAmount.
type Earning struct {
	ID                   string        `json:"id"`
	ProviderID           string        `json:"provider_id"`
	PurchaseID           string        `json:"purchase_id"`
	TotalAmount          int64         `json:"total_amount"`
	CommissionPercentage int64         `json:"commission_percentage"`
	ProviderAmount       int64         `json:"provider_amount"`
	PlatformFee          int64         `json:"platform_fee"`
	Status               EarningStatus `json:"status"`
	CreatedAt            time.Time     `json:"created_at"`
	ConfirmedAt          *time.Time    `json:"confirmed_at,omitempty"`
	WithdrawnAt          *time.Time    `json:"withdrawn_at,omitempty"`
}

type EarningsSummary struct {
	ProviderID      string `json:"provider_id"`
	PendingAmount   int64  `json:"pending_amount"`
	ConfirmedAmount int64  `json:"confirmed_amount"`
	WithdrawnAmount int64  `json:"withdrawn_amount"`
}
