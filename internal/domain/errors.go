package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrNotCanonical     = errors.New("not a measured dataset point")
	ErrInvalidDataset   = errors.New("invalid dataset")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrBatchNotActive   = errors.New("batch is not active")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)
