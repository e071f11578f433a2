package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required":      "is required",
	"min":           "must be at least %s characters long",
	"max":           "maximum at %s characters long",
	"numeric":       "must be a number",
	"oneof":         "must be one of [%s]",
	"gt":            "must be greater than %s",
	"gte":           "must be greater than or equal to %s",
	"uuid":          "must be a valid UUID",
	"refund_reason": "must be a known refund reason",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"oneof": true,
	"gt":    true,
	"gte":   true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientPurchaseNotFound              = "purchase not found"
	ErrClientPartyNotFound                 = "account not found"
	ErrClientEarningNotFound               = "earning not found"
	ErrClientPayoutRequestNotFound         = "payout request not found"
	ErrClientInsufficientSpendableBalance  = "insufficient balance to complete this purchase"
	ErrClientInsufficientPayoutBalance     = "insufficient payout balance for this amount"
	ErrClientPayoutRequestAlreadyPending   = "you already have a pending payout request"
	ErrClientPayoutRequestNotPending       = "this payout request can no longer be changed"
	ErrClientPayoutRequestNotApproved      = "this payout request has not been approved yet"
	ErrClientPayoutRequestNotOwned         = "this payout request does not belong to you"
	ErrClientEarningNotPending             = "this earning has already been processed"
	ErrClientEarningAlreadyExists          = "this purchase has already been settled"
	ErrClientPurchaseAlreadyRefunded       = "this purchase has already been refunded"
	ErrClientPurchaseAlreadyHonored        = "this purchase has already been paid out to the provider"
)

// Error messages for developers
const (
	ErrDevCannotParseJSON          = "cannot parse JSON into struct or other data types"
	ErrDevCannotMarshalJSON        = "cannot convert struct or other data types to JSON"
	ErrDevCannotParseMultipartForm = "cannot parse multipart form body"
	ErrDevBuildRequest             = "encountering error while building request DTO"
	ErrDevCreateHTTPRequest        = "failed to create HTTP request"
	ErrDevSendHTTPRequest          = "failed to send HTTP request"
	ErrDevDecodeResponse           = "failed to decode %s response"

	// Validation messages
	ErrDevValidationFailed           = "validation failed"
	ErrDevURLParamIDValidationFailed = "parameter %s validation failed"

	// Domain messages
	ErrDevPurchaseNotExists             = "purchase not exists in our system"
	ErrDevPartyNotExists                = "party not exists in our system"
	ErrDevEarningNotExists              = "earning not exists in our system"
	ErrDevPayoutRequestNotExists        = "payout request not exists in our system"
	ErrDevInsufficientSpendableBalance  = "spendable wallet balance lower than purchase amount"
	ErrDevInsufficientPayoutBalance     = "payout wallet balance lower than requested amount"
	ErrDevPayoutRequestAlreadyPending   = "provider already has a pending payout request"
	ErrDevPayoutRequestNotPending       = "payout request is not in pending status"
	ErrDevPayoutRequestNotApproved      = "payout request is not in approved status"
	ErrDevPayoutRequestOwnershipInvalid = "payout request belongs to another provider"
	ErrDevEarningNotPending             = "earning is not in pending status"
	ErrDevEarningAlreadyExists          = "earning already exists for this purchase"
	ErrDevPurchaseAlreadyRefunded       = "purchase already refunded"
	ErrDevPurchaseAlreadyHonored        = "earning already opened for this purchase, refund impossible"

	// Postgres messages
	ErrDevPostgresFailedToInsertData = "failed to insert data into postgres"
	ErrDevPostgresFailedToUpdateData = "failed to update data into postgres"
	ErrDevPostgresFailedToFindData   = "failed when do find data on postgres"
	ErrDevPostgresFailedToDeleteData = "failed when do delete data on postgres"
	ErrDevPostgresTxBegin            = "failed to begin postgres transaction"
	ErrDevPostgresTxCommit           = "failed to commit postgres transaction"

	// Mongo messages
	ErrDevDBFailedToInsertDocument = "failed to insert document into database"
	ErrDevDBFailedToFindDocument   = "failed when do find document on database"

	// Redis messages
	ErrDevRedisSetData        = "failed to SET data into redis"
	ErrDevRedisGetData        = "failed to GET data from redis"
	ErrDevRedisGetNoData      = "failed to GET data from redis, there is no data associated with key %s"
	ErrDevRedisDeleteData     = "failed to DELETE data from redis"
	ErrDevRedisSetNX          = "failed to SETNX data into redis"
	ErrDevRedisExpire         = "failed to EXPIRE key in redis"
	ErrDevRedisUnlock         = "failed to release redis lock"
	ErrDevRedisIncrementValue = "failed to INCR data in redis"

	// RabbitMQ messages
	ErrDevRabbitMQPublish = "failed to publish message to rabbitmq queue %s"

	// Minio messages
	ErrDevMinioFailedToCreateObject = "failed to create object into minio storage with bucket name '%s'"

	// Server messages
	ErrDevServerDeadlineExceeded = "deadline exceeded"
	ErrDevMissingRequestID       = "request ID missing from request context"
)
