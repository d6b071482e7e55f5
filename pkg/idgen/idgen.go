// Package idgen provides ID generation utilities for the application.
// It encapsulates the ID generation implementation, making it easy to change
// the underlying ID generation strategy in the future.
package idgen

import (
	"github.com/rs/xid"
)

// NewID generates a new globally unique, sortable identifier.
// Returns a 20-character string using xid format.
func NewID() string {
	return xid.New().String()
}

// NewRunID generates the identifier of one render run.
// Every log line and span emitted while rendering a batch of reports carries it.
func NewRunID() string {
	return NewID()
}

// IsValid reports whether id is a well-formed xid.
func IsValid(id string) bool {
	_, err := xid.FromString(id)
	return err == nil
}

// NewRequestID generates an identifier for one preview server request
func NewRequestID() string {
	return NewID()
}
