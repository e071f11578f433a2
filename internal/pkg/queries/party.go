package queries

const (
	GetPartyByID = `
		SELECT id, name, role, spendable_wallet, payout_wallet, created_at, updated_at
		FROM parties
		WHERE id = $1
	`

	GetPartyByIDForUpdate = `
		SELECT id, name, role, spendable_wallet, payout_wallet, created_at, updated_at
		FROM parties
		WHERE id = $1
		FOR UPDATE
	`

	AddToSpendableWallet = `
		UPDATE parties
		SET spendable_wallet = spendable_wallet + $1, updated_at = NOW()
		WHERE id = $2
	`

	AddToPayoutWallet = `
		UPDATE parties
		SET payout_wallet = payout_wallet + $1, updated_at = NOW()
		WHERE id = $2
	`
)
