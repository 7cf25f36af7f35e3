package services

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrCartCompleted      = errors.New("cart already completed")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAmountMismatch     = errors.New("payment amount does not match order total")
	ErrUnknownTransaction = errors.New("unknown transaction")
	ErrPaymentUnavailable = errors.New("payment provider not configured")
)
