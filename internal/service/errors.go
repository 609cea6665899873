package service

import "errors"

var (
	// ErrInvalidInput marks a rejected deadline or course mutation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrWorkloadStale means a mutation was stored but the follow-up sync
	// failed. The derived weeks still reflect the previous state; retry the sync.
	ErrWorkloadStale = errors.New("workload not refreshed")
)
