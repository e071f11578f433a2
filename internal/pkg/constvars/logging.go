package constvars

const (
	LoggingRequestIDKey       = "request_id"
	LoggingRequestKey         = "request"
	LoggingResponseLengthKey  = "response_length"
	LoggingQueryParamsKey     = "query_params"
	LoggingPurchaseIDKey      = "purchase_id"
	LoggingEarningIDKey       = "earning_id"
	LoggingPayoutRequestIDKey = "payout_request_id"
	LoggingPatientIDKey       = "patient_id"
	LoggingProviderIDKey      = "provider_id"
	LoggingSessionIDKey       = "session_id"
	LoggingRefundReasonKey    = "refund_reason"
	LoggingRefundAmountKey    = "refund_amount"
	LoggingAmountKey          = "amount"
	LoggingWarningLevelKey    = "warning_level"
	LoggingRedisKey           = "redis_key"
	LoggingLockValueKey       = "lock_value"
	LoggingLockExpirationKey  = "lock_expiration"
	LoggingMethodKey          = "method"
	LoggingEndpointKey        = "endpoint"
	LoggingRemoteAddrKey      = "remote_addr"
	LoggingUserAgentKey       = "user_agent"
	LoggingQueryKey           = "query"
	LoggingStatusCodeKey      = "status_code"
	LoggingDurationKey        = "duration"
	LoggingSuccessKey         = "success"
)
