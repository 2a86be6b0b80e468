// Package service implements the ledger operations on top of the storage
// and cache layers: bill creation, payment and settlement recording, owed
// recomputation and balance aggregation.
package service

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field- or item-scoped messages for a rejected
// payload, e.g. {"items[0].shares[1].percentage": "total percentage (110%)
// exceeds 100%"}. The whole write is aborted when validation fails; no
// partial state is persisted.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Errors[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError builds a single-field ValidationError.
func newValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Errors: map[string]string{field: fmt.Sprintf(format, args...)}}
}

// fieldErrors accumulates scoped messages across a payload before deciding
// whether to fail.
type fieldErrors map[string]string

func (f fieldErrors) addf(field, format string, args ...any) {
	if _, dup := f[field]; dup {
		return
	}
	f[field] = fmt.Sprintf(format, args...)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Errors: f}
}
