package config

import (
	"fmt"
	"strings"
)

// Path used for errors that do not belong to a specific field.
const (
	PathRoot = "root"
	PathFile = "file"
)

// MaxSafeInteger is the largest value accepted by integer fields: the
// largest integer a JSON number holds exactly.
const MaxSafeInteger = 1<<53 - 1

// ValidationError describes one violated constraint.
type ValidationError struct {
	// Path is the dot-delimited location of the offending field.
	Path string `json:"path"`

	Message string `json:"message"`

	// Value is the offending value, when one exists.
	Value any `json:"value,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Messages returns the message of every error in order.
func Messages(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))

	for _, e := range errs {
		out = append(out, e.Message)
	}

	return out
}

// JoinMessages joins all error messages with ", ".
func JoinMessages(errs []ValidationError) string {
	return strings.Join(Messages(errs), ", ")
}
