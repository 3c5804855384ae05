package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidRange = errors.New("end time must be after creation time")
)

// business logic errors
var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrAuctionClosed      = errors.New("auction is closed")
	ErrInvalidState       = errors.New("invalid state")
)
