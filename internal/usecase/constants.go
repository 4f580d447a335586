package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request runs
	IdempotencyPending = "processing"

	// MaxBatchSize caps the number of entries or movements posted in one transaction
	MaxBatchSize = 1000

	// ReviewRationale is attached to suggestions raised by the amount threshold
	ReviewRationale = "large amount, recommend review"

	// OperatorSuggestionRationale is attached to suggestions proposed through a status change
	OperatorSuggestionRationale = "proposed by operator"
)

// Classification policy defaults.
const (
	DefaultReviewThreshold         = "1000.00"
	DefaultSuggestionConfidence    = 90
	DefaultPayableCounterPrefix    = "1.1.01"
	DefaultReceivableCounterPrefix = "3.1"
)
