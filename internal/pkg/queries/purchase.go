package queries

const (
	InsertPurchase = `
		INSERT INTO purchases (id, session_id, patient_id, provider_id, amount, duration_minutes, session_status, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, session_id, patient_id, provider_id, amount, duration_minutes, session_status,
			refunded, refund_amount, refund_reason, refunded_at, created_at, expires_at
	`

	GetPurchaseByID = `
		SELECT id, session_id, patient_id, provider_id, amount, duration_minutes, session_status,
			refunded, refund_amount, refund_reason, refunded_at, created_at, expires_at
		FROM purchases
		WHERE id = $1
	`

	GetPurchaseByIDForUpdate = `
		SELECT id, session_id, patient_id, provider_id, amount, duration_minutes, session_status,
			refunded, refund_amount, refund_reason, refunded_at, created_at, expires_at
		FROM purchases
		WHERE id = $1
		FOR UPDATE
	`

	MarkPurchaseRefunded = `
		UPDATE purchases
		SET refunded = TRUE, refund_amount = $1, refund_reason = $2, refunded_at = $3
		WHERE id = $4 AND refunded = FALSE
	`

	MarkPurchaseSessionCompleted = `
		UPDATE purchases
		SET session_status = 'completed'
		WHERE id = $1
	`

	GetPurchasesEligibleForRefund = `
		SELECT id, session_id, patient_id, provider_id, amount, duration_minutes, session_status,
			refunded, refund_amount, refund_reason, refunded_at, created_at, expires_at
		FROM purchases
		WHERE refunded = FALSE
			AND created_at < $1
			AND session_status IN ('approved', 'active')
		ORDER BY created_at ASC
	`

	GetRefundedPurchasesByPatient = `
		SELECT id, session_id, patient_id, provider_id, amount, duration_minutes, session_status,
			refunded, refund_amount, refund_reason, refunded_at, created_at, expires_at
		FROM purchases
		WHERE patient_id = $1 AND refunded = TRUE
		ORDER BY refunded_at DESC
	`

	CountRefundsByProviderReasonSince = `
		SELECT COUNT(*)
		FROM purchases
		WHERE provider_id = $1 AND refunded = TRUE AND refund_reason = $2 AND refunded_at >= $3
	`

	CountPurchasesByProviderSince = `
		SELECT COUNT(*)
		FROM purchases
		WHERE provider_id = $1 AND created_at >= $2
	`

	GetRefundTotals = `
		SELECT COUNT(*), COALESCE(SUM(refund_amount), 0)
		FROM purchases
		WHERE refunded = TRUE
	`

	GetRefundCountsByReason = `
		SELECT refund_reason, COUNT(*)
		FROM purchases
		WHERE refunded = TRUE
		GROUP BY refund_reason
	`
)
