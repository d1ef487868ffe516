package loan

import "errors"

var (
	ErrNotFound           = errors.New("loan not found")
	ErrOutOfRange         = errors.New("loan amount out of range")
	ErrTooManyActiveLoans = errors.New("too many active loans")
	ErrInvalidTransition  = errors.New("invalid loan state transition")
	ErrAlreadyApproved    = errors.New("loan already approved")
	ErrAlreadySettled     = errors.New("loan already settled")
	ErrNotRepayable       = errors.New("loan is not open for repayment")
)
