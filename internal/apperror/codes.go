package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Trading-specific error codes
const (
	// Numeric conversion
	CodeInvalidDecimals Code = "INVALID_DECIMALS"
	CodePrecisionLoss   Code = "PRECISION_LOSS"

	// Order creation
	CodeNoPriorBuyToSell Code = "NO_PRIOR_BUY_TO_SELL"
	CodeMissingAnchor    Code = "MISSING_ANCHOR"
	CodeMissingTokenInfo Code = "MISSING_TOKEN_INFO"
	CodeInvalidTradeSize Code = "INVALID_TRADE_SIZE"

	// Aggregator
	CodeNoRouteFound      Code = "NO_ROUTE_FOUND"
	CodeQuoteFailed       Code = "QUOTE_FAILED"
	CodeExecutionFailed   Code = "EXECUTION_FAILED"
	CodeExecutionRejected Code = "EXECUTION_REJECTED"

	// State store / journal
	CodeOrderNotFound        Code = "ORDER_NOT_FOUND"
	CodeOrderAlreadyExecuted Code = "ORDER_ALREADY_EXECUTED"
	CodeJournalWriteFailed   Code = "JOURNAL_WRITE_FAILED"

	// Circuit breaker
	CodeCircuitOpen Code = "CIRCUIT_OPEN"
)
