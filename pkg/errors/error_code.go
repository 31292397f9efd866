package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidMultiplier    ErrorCode = 103
	ErrCodeInvalidThreshold     ErrorCode = 104
	ErrCodeInvalidSymbol        ErrorCode = 105

	// Data errors (200-299)
	ErrCodeCandleDataMissing   ErrorCode = 200
	ErrCodeCandleDataMalformed ErrorCode = 201
	ErrCodePriceUnavailable    ErrorCode = 202
	ErrCodeFundingUnavailable  ErrorCode = 203
	ErrCodeOpenInterestMissing ErrorCode = 204

	// Signal errors (300-399)
	ErrCodeEvaluatorFailed     ErrorCode = 300
	ErrCodeNoConsensus         ErrorCode = 301
	ErrCodeScoreBelowThreshold ErrorCode = 302

	// Trading errors (400-499)
	ErrCodeOrderFailed       ErrorCode = 400
	ErrCodePositionNotFound  ErrorCode = 401
	ErrCodeInsufficientFunds ErrorCode = 402
	ErrCodeLeverageRejected  ErrorCode = 403

	// Persistence errors (500-599)
	ErrCodeSnapshotReadFailed  ErrorCode = 500
	ErrCodeSnapshotWriteFailed ErrorCode = 501
)
