package service

import "errors"

var (
	// ErrInvalidInput is fatal to the request; callers get it wrapped with detail.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConcurrentModification is raised by the store when two settlement passes
	// race on the same line. Retryable by the caller.
	ErrConcurrentModification = errors.New("concurrent modification")

	ErrPaymentNotFound = errors.New("payment not found")
	ErrPaymentVoided   = errors.New("payment is void")
	ErrNothingPending  = errors.New("payment has nothing pending")
)
