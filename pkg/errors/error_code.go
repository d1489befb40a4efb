package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown   ErrorCode = 1
	ErrCodeCancelled ErrorCode = 2

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeMissingParameter     ErrorCode = 103
	ErrCodeUnknownParameter     ErrorCode = 104

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeHistoricalDataFailed  ErrorCode = 203
	ErrCodeNoDataFound           ErrorCode = 204
	ErrCodeRealTimeDataFailed    ErrorCode = 205

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError  ErrorCode = 401
	ErrCodeStrategyRuntimeError ErrorCode = 402

	// Trading errors (500-599)
	ErrCodeOrderFailed       ErrorCode = 500
	ErrCodePositionNotFound  ErrorCode = 501
	ErrCodeBrokerUnavailable ErrorCode = 502
	ErrCodeTradeLogFailed    ErrorCode = 503

	// Backtest errors (600-699)
	ErrCodeBacktestInitFailed   ErrorCode = 601
	ErrCodeBacktestConfigError  ErrorCode = 602
	ErrCodeBacktestNoDatasource ErrorCode = 608
	ErrCodeAccountantFailed     ErrorCode = 609
	ErrCodeValuationWriteFailed ErrorCode = 610

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702

	// Callback errors (800-899)
	ErrCodeCallbackFailed ErrorCode = 800

	// Ledger errors (900-999)
	ErrCodeDomainError       ErrorCode = 900
	ErrCodeLedgerWriteFailed ErrorCode = 901
	ErrCodeLedgerReadFailed  ErrorCode = 902
	ErrCodeEmptyStore        ErrorCode = 903

	// Sweep errors (1000-1099)
	ErrCodeSweepConfigError ErrorCode = 1000
	ErrCodeSweepRunFailed   ErrorCode = 1001

	// Notification errors (1100-1199)
	ErrCodeNotificationDelivery ErrorCode = 1100
	ErrCodeReportRenderFailed   ErrorCode = 1101

	// Lifecycle errors (1200-1299)
	ErrCodeInvalidTransition ErrorCode = 1200
)
