package domain

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrForbidden         = errors.New("not allowed for this account")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrBelowMinimum      = errors.New("amount is below the package minimum investment")
	ErrAmountPrecision   = errors.New("amount must have at most two decimal places")
	ErrInactivePackage   = errors.New("package is not open for investment")
	ErrAlreadyCertified  = errors.New("farmer is already certified")
	ErrInvalidFlag       = errors.New("unknown verification flag")
	ErrAlreadyExists     = errors.New("record already exists")
)
