package model

import "errors"

// Input errors: an unrecognised token or malformed value supplied by the user.
var (
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidMonth    = errors.New("invalid month")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidAmount   = errors.New("invalid amount")
)

// Domain invariant violations. Operations returning these leave state unchanged.
var (
	ErrInvalidBalance    = errors.New("invalid balance")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrIndexOutOfRange   = errors.New("index out of range")
)
