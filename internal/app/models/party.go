package models

import (
	"time"
)

type PartyRole string

const (
	PartyRolePatient  PartyRole = "patient"
	PartyRoleProvider PartyRole = "provider"
)

// Party is a balance-holding account. Wallet amounts are minor units.
// SpendableWallet is debited on purchase and credited on refund;
// PayoutWallet is credited on earning confirmation and reserved/released
// by payout requests.
type Party struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            PartyRole `json:"role"`
	SpendableWallet int64     `json:"spendable_wallet"`
	PayoutWallet    int64     `json:"payout_wallet"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
