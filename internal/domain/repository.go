package domain

import "errors"

// Sentinel errors returned (wrapped) by repository implementations
var (
	ErrRecordNotFound  = errors.New("record not found")
	ErrDuplicateRecord = errors.New("duplicate record")
)
