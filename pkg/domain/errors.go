package domain

import "errors"

// ErrResponseNotFound is returned when a response ID cannot be found in the store.
var ErrResponseNotFound = errors.New("response not found")

// ErrFormNotFound is returned when a form ID is unknown to the provider.
var ErrFormNotFound = errors.New("form not found")

// ErrBlockNotFound is returned when a block ID does not exist in the form.
var ErrBlockNotFound = errors.New("block not found")

// ErrResponseCompleted is returned when submitting to an already-finished response.
var ErrResponseCompleted = errors.New("response already completed")

// ErrInvalidAnswer is returned when a submitted answer is rejected by
// sanitization (oversized or malformed input).
var ErrInvalidAnswer = errors.New("invalid answer")
