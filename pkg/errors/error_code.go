package errors

// ErrorCode identifies the category of an *Error.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidPrice         ErrorCode = 103
	ErrCodeInvalidBar           ErrorCode = 104
	ErrCodeInvalidDateRange     ErrorCode = 105
	ErrCodeInvalidGranularity   ErrorCode = 106
	ErrCodeInvalidVersion       ErrorCode = 107
	ErrCodeVersionMismatch      ErrorCode = 108

	// Data errors (200-299)
	ErrCodeInsufficientData ErrorCode = 200
	ErrCodeMissingDate      ErrorCode = 201
	ErrCodeDataUnavailable  ErrorCode = 202
	ErrCodeQueryFailed      ErrorCode = 203
	ErrCodeNoDataFound      ErrorCode = 204

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyAlreadyExists ErrorCode = 401

	// Backtest errors (600-699)
	ErrCodeBacktestFailed ErrorCode = 600

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 703
	ErrCodeUnsupportedOperation  ErrorCode = 704

	// Scan errors (800-899)
	ErrCodeScanAborted ErrorCode = 800
)
