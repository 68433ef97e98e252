package i18n

// Keys of the built-in message catalog. Handlers and middleware never put
// literal user-facing text in a response; they pass one of these to Message.
const (
	ErrKeyInvalidRequest     = "error.invalid_request"
	ErrKeyInvalidRequestBody = "error.invalid_request_body"
	ErrKeyInternalError      = "error.internal_error"
	ErrKeyNotFound           = "error.not_found"
	ErrKeyConflict           = "error.conflict"
	ErrKeyTimeout            = "error.timeout"
	ErrKeyRateLimitExceeded  = "error.rate_limit_exceeded"

	// Caller authentication.
	ErrKeyUnauthorized   = "error.unauthorized"
	ErrKeyAPIKeyRequired = "error.api_key_required"
	ErrKeyInvalidAPIKey  = "error.invalid_api_key"
	ErrKeyTokenRequired  = "error.token_required"
	ErrKeyInvalidToken   = "error.invalid_token"

	// An Idempotency-Key was reused for a request with a different body.
	ErrKeyIdempotencyMismatch = "error.idempotency_mismatch"

	ErrKeyAdviceNotFound         = "error.advice_not_found"
	ErrKeyCostDataUnavailable    = "error.cost_data_unavailable"
	ErrKeyOrderSystemUnavailable = "error.order_system_unavailable"
	ErrKeyValidationProducts     = "error.validation.products"
	ErrKeyValidationCountry      = "error.validation.country"
)
