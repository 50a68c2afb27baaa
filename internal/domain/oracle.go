package domain

import "context"

// Oracle is an external classifier treated as an opaque function from text to label.
// Implementations return ErrOracleUnavailable when they cannot serve requests,
// or any other error for a failed call.
type Oracle interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}
