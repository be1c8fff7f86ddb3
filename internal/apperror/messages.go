package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",
	CodeCancelled:     "Request cancelled",

	// Decoding
	CodeMalformedEncoding: "Malformed orderbook encoding",
	CodeTruncatedRecord:   "Truncated order record",

	// Orderbook construction / bookkeeping
	CodeInvalidOrder:        "Invalid order",
	CodeInconsistentBalance: "Inconsistent user balance",
	CodeUnknownToken:        "Unknown token",
	CodeInvalidMarket:       "Invalid market",

	// Path search / fill loop
	CodeInsufficientCapacity: "Insufficient capacity along path",
	CodeNegativeCycle:        "Negative cycle detected in orderbook graph",
	CodeUnreducibleOrderbook: "Orderbook could not be reduced to ring-free form",

	// Snapshot / ingestion
	CodeSnapshotUnavailable: "Orderbook snapshot unavailable",
	CodeSnapshotStale:       "Orderbook snapshot is stale",

	// WebSocket errors
	CodeWebSocketConnectionError: "WebSocket connection error",
	CodeWebSocketReconnecting:    "WebSocket reconnecting",
	CodeWebSocketClosed:          "WebSocket connection closed",
	CodeWebSocketSendError:       "Failed to send WebSocket message",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
