// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "fmt"

// ValidationError reports malformed user input. No state was changed.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// AlreadyActedError reports a repeated vote or nomination. No state was changed.
type AlreadyActedError struct {
	Action   string // "vote" or "nomination"
	Position Position
	Message  string
}

func (e *AlreadyActedError) Error() string {
	return e.Message
}

// StoreCorruptError reports a persisted value that could not be decoded.
type StoreCorruptError struct {
	Key string
	Err error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("corrupt value under %q: %v", e.Key, e.Err)
}

func (e *StoreCorruptError) Unwrap() error {
	return e.Err
}

// ExternalServiceError reports a failed call to an outside collaborator.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}
