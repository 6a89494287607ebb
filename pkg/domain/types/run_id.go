package types

import "github.com/google/uuid"

// RunID identifies one report run in logs
type RunID string

// NewRunID generates a new random RunID
func NewRunID() RunID {
	return RunID(uuid.New().String())
}

// String returns the string representation of RunID
func (r RunID) String() string {
	return string(r)
}
