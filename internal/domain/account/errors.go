package account

import "errors"

var (
	ErrNotFound            = errors.New("record not found")
	ErrNotVerified         = errors.New("kyc not verified")
	ErrAccountFrozen       = errors.New("account frozen")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrKYCPending          = errors.New("kyc already under review")
	ErrAlreadyReviewed     = errors.New("already reviewed")
)
