package common

import (
	"github.com/google/uuid"
)

// NewInvocationID generates a unique summary invocation ID with the "sum_"
// prefix. Format: sum_<uuid>
func NewInvocationID() string {
	return "sum_" + uuid.New().String()
}
