package common

import (
	"github.com/google/uuid"
)

// ID is a string alias for a UUID v4 entity identifier.
type ID string

// String returns the raw identifier.
func (id ID) String() string { return string(id) }

// NewID generates a new UUID v4.
func NewID() ID {
	return ID(uuid.New().String())
}

// GenerateID generates a unique ID with an optional prefix.
func GenerateID(prefix string) string {
	id := NewID().String()
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}

// OutputFormat selects how results are rendered by the CLI.
type OutputFormat string

const (
	OutputText  OutputFormat = "text"
	OutputJSON  OutputFormat = "json"
	OutputTable OutputFormat = "table"
)

// Valid reports whether f is a known output format.
func (f OutputFormat) Valid() bool {
	switch f {
	case OutputText, OutputJSON, OutputTable:
		return true
	}
	return false
}
