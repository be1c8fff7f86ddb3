package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
	CodeCancelled     Code = "CANCELLED"
)

// Pricegraph-specific error codes
const (
	// Decoding (C1)
	CodeMalformedEncoding Code = "MALFORMED_ENCODING"
	CodeTruncatedRecord   Code = "TRUNCATED_RECORD"

	// Orderbook construction / bookkeeping (C3)
	CodeInvalidOrder        Code = "INVALID_ORDER"
	CodeInconsistentBalance Code = "INCONSISTENT_BALANCE"
	CodeUnknownToken        Code = "UNKNOWN_TOKEN"
	CodeInvalidMarket       Code = "INVALID_MARKET"

	// Path search / fill loop (C5, C6)
	CodeInsufficientCapacity Code = "INSUFFICIENT_CAPACITY"
	CodeNegativeCycle        Code = "NEGATIVE_CYCLE"
	CodeUnreducibleOrderbook Code = "UNREDUCIBLE_ORDERBOOK"

	// Snapshot / ingestion
	CodeSnapshotUnavailable Code = "SNAPSHOT_UNAVAILABLE"
	CodeSnapshotStale       Code = "SNAPSHOT_STALE"

	// WebSocket errors (streaming consumers)
	CodeWebSocketConnectionError Code = "WEBSOCKET_CONNECTION_ERROR"
	CodeWebSocketReconnecting    Code = "WEBSOCKET_RECONNECTING"
	CodeWebSocketClosed          Code = "WEBSOCKET_CLOSED"
	CodeWebSocketSendError       Code = "WEBSOCKET_SEND_ERROR"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
