package models

import (
	"time"
)

type PayoutRequestStatus string

const (
	PayoutPending   PayoutRequestStatus = "pending"
	PayoutApproved  PayoutRequestStatus = "approved"
	PayoutRejected  PayoutRequestStatus = "rejected"
	PayoutCancelled PayoutRequestStatus = "cancelled"
	PayoutCompleted PayoutRequestStatus = "completed"
)

type BankDetails struct {
	AccountName   string `json:"account_name"`
	AccountNumber string `json:"account_number"`
	BankName      string `json:"bank_name"`
}

// PayoutRequest reserves funds from the provider payout wallet the moment
// it is filed. The reservation is released only on rejection or
// cancellation; approval keeps the funds out of the wallet until the
// transfer proof completes the request.
type PayoutRequest struct {
	ID                  string              `json:"id"`
	ProviderID          string              `json:"provider_id"`
	Amount              int64               `json:"amount"`
	BankDetails         BankDetails         `json:"bank_details"`
	Status              PayoutRequestStatus `json:"status"`
	AdminNote           *string             `json:"admin_note,omitempty"`
	TransferProofObject *string             `json:"transfer_proof_object,omitempty"`
	RequestedAt         time.Time           `json:"requested_at"`
	ApprovedAt          *time.Time          `json:"approved_at,omitempty"`
	RejectedAt          *time.Time          `json:"rejected_at,omitempty"`
	CancelledAt         *time.Time          `json:"cancelled_at,omitempty"`
	ProcessedAt         *time.Time          `json:"processed_at,omitempty"`
}
