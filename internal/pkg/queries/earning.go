package queries

const (
	InsertEarning = `
		INSERT INTO earnings (id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
	`

	GetEarningByID = `
		SELECT id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
		FROM earnings
		WHERE id = $1
	`

	GetEarningByIDForUpdate = `
		SELECT id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
		FROM earnings
		WHERE id = $1
		FOR UPDATE
	`

	GetEarningByPurchaseID = `
		SELECT id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
		FROM earnings
		WHERE purchase_id = $1
	`

	MarkEarningConfirmed = `
		UPDATE earnings
		SET status = 'confirmed', confirmed_at = $1
		WHERE id = $2 AND status = 'pending'
	`

	GetConfirmedEarningsByProviderForUpdate = `
		SELECT id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
		FROM earnings
		WHERE provider_id = $1 AND status = 'confirmed'
		ORDER BY confirmed_at ASC
		FOR UPDATE
	`

	MarkEarningsWithdrawn = `
		UPDATE earnings
		SET status = 'withdrawn', withdrawn_at = $1
		WHERE id = ANY($2) AND status = 'confirmed'
	`

	GetEarningsByProvider = `
		SELECT id, provider_id, purchase_id, total_amount, commission_percentage, provider_amount, platform_fee,
			status, created_at, confirmed_at, withdrawn_at
		FROM earnings
		WHERE provider_id = $1
		ORDER BY created_at DESC
	`

	GetEarningsSummaryByProvider = `
		SELECT
			COALESCE(SUM(provider_amount) FILTER (WHERE status = 'pending'), 0),
			COALESCE(SUM(provider_amount) FILTER (WHERE status = 'confirmed'), 0),
			COALESCE(SUM(provider_amount) FILTER (WHERE status = 'withdrawn'), 0)
		FROM earnings
		WHERE provider_id = $1
	`
)
