package usecase

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrBadPayload    = errors.New("unexpected upstream payload shape")
	ErrFetchFailed   = errors.New("upstream fetch failed")
)
