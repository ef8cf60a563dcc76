package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	CodeConfigurationError: "Configuration error",

	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	CodeInvalidDecimals: "Token decimals must be a positive integer",
	CodePrecisionLoss:   "Value has more fractional precision than the token decimals allow",

	CodeNoPriorBuyToSell: "Cannot create a sell order without a prior filled buy order",
	CodeMissingAnchor:    "No baseline out-amount available for this direction",
	CodeMissingTokenInfo: "Token info is missing or incomplete",
	CodeInvalidTradeSize: "Invalid trade size",

	CodeNoRouteFound:      "Aggregator reported no viable route",
	CodeQuoteFailed:       "Failed to fetch aggregator quote",
	CodeExecutionFailed:   "Swap execution failed",
	CodeExecutionRejected: "Swap execution rejected by aggregator",

	CodeOrderNotFound:        "Order not found in state",
	CodeOrderAlreadyExecuted: "Order is already executed",
	CodeJournalWriteFailed:   "Failed to append order to the journal",

	CodeCircuitOpen: "Circuit breaker is open",
}
