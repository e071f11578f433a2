package queries

const (
	InsertPayoutRequest = `
		INSERT INTO payout_requests (id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status,
			admin_note, transfer_proof_object, requested_at, approved_at, rejected_at, cancelled_at, processed_at
	`

	GetPayoutRequestByID = `
		SELECT id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status,
			admin_note, transfer_proof_object, requested_at, approved_at, rejected_at, cancelled_at, processed_at
		FROM payout_requests
		WHERE id = $1
	`

	GetPayoutRequestByIDForUpdate = `
		SELECT id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status,
			admin_note, transfer_proof_object, requested_at, approved_at, rejected_at, cancelled_at, processed_at
		FROM payout_requests
		WHERE id = $1
		FOR UPDATE
	`

	CountPendingPayoutRequestsByProvider = `
		SELECT COUNT(*)
		FROM payout_requests
		WHERE provider_id = $1 AND status = 'pending'
	`

	UpdatePayoutRequestApproved = `
		UPDATE payout_requests
		SET status = 'approved', admin_note = $1, approved_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	UpdatePayoutRequestRejected = `
		UPDATE payout_requests
		SET status = 'rejected', admin_note = $1, rejected_at = $2
		WHERE id = $3 AND status = 'pending'
	`

	UpdatePayoutRequestCancelled = `
		UPDATE payout_requests
		SET status = 'cancelled', cancelled_at = $1
		WHERE id = $2 AND status = 'pending'
	`

	UpdatePayoutRequestCompleted = `
		UPDATE payout_requests
		SET status = 'completed', transfer_proof_object = $1, processed_at = $2
		WHERE id = $3 AND status = 'approved'
	`

	GetPayoutRequestsByProvider = `
		SELECT id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status,
			admin_note, transfer_proof_object, requested_at, approved_at, rejected_at, cancelled_at, processed_at
		FROM payout_requests
		WHERE provider_id = $1
		ORDER BY requested_at DESC
	`

	GetPendingPayoutRequests = `
		SELECT id, provider_id, amount, bank_account_name, bank_account_number, bank_name, status,
			admin_note, transfer_proof_object, requested_at, approved_at, rejected_at, cancelled_at, processed_at
		FROM payout_requests
		WHERE status = 'pending'
		ORDER BY requested_at ASC
	`
)
