package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNotLoggedIn        = errors.New("login required")
	ErrEmptyBatch         = errors.New("no accepted samples in batch")
	ErrBatchFull          = errors.New("sample batch is full")
	ErrEmptyHistory       = errors.New("history is empty")
	ErrOutOfRange         = errors.New("value out of range")
	ErrUnknownField       = errors.New("unknown sample field")
	ErrInvalidNumber      = errors.New("invalid number")
	ErrPriceUnavailable   = errors.New("price unavailable")
)
