package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique job run ID with the "run_" prefix
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}

// NewUserID generates a unique user ID with the "usr_" prefix
// Format: usr_<uuid>
func NewUserID() string {
	return "usr_" + uuid.New().String()
}
