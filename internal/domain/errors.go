package domain

import "errors"

var (
	// ErrInvalidInput is returned when the text to classify is missing or too short.
	ErrInvalidInput = errors.New("invalid input: text is empty or too short")

	// ErrOracleUnavailable is returned by an oracle that cannot serve requests at all.
	ErrOracleUnavailable = errors.New("oracle unavailable")

	ErrUnknownSentiment = errors.New("unknown sentiment label")
)
