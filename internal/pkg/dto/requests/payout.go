package requests

type CreatePayoutRequest struct {
	Amount            int64  `json:"amount" validate:"required,gt=0"`
	BankAccountName   string `json:"bank_account_name" validate:"required"`
	BankAccountNumber string `json:"bank_account_number" validate:"required,numeric"`
	BankName          string `json:"bank_name" validate:"required"`
}

type ReviewPayoutRequest struct {
	Note string `json:"note"`
}
