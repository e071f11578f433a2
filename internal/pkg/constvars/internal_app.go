package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
)

const (
	REQUEST_ID_PREFIX = "CRPY_SVC_"
)

const (
	CarepayRolePatient  = "patient"
	CarepayRoleProvider = "provider"
)

const (
	AppPaginationUrlFormat = "%s?page=%d&page_size=%d"
)

const (
	MongoCollectionNotificationLog = "notification_log"
)

const (
	SessionSlotHoldKeyFormat = "sessionslot:%s"
	SweepLeaderLockKey       = "refundsweep:leader"
)
