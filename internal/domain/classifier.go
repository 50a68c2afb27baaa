package domain

import "context"

// Classifier decides a label for a piece of text.
// Classify returns ErrInvalidInput for text that is too short to classify.
type Classifier interface {
	Classify(ctx context.Context, text string) (ClassificationResult, error)
	ModelInfo() ModelInfo
}
