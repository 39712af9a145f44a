// Kumo: A resilient manga aggregation library and CLI.
// Copyright (C) 2026 The Kumo Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

// Package errors defines the error taxonomy shared by the fetch, parse and
// provider layers. Expected "no result" outcomes are sentinel values checked
// with Is*, faults carry their own types so operators can tell a source site
// changing shape apart from a misconfigured provider.
package errors

import (
	stderrors "errors"
	"fmt"
)

var (
	As     = stderrors.As
	Is     = stderrors.Is
	Unwrap = stderrors.Unwrap
	New    = stderrors.New
)

var (
	// ErrNotFound is terminal: the upstream confirmed the resource is absent.
	ErrNotFound = stderrors.New("resource not found")
	// ErrForbidden is terminal: the upstream refused access.
	ErrForbidden = stderrors.New("access forbidden")
	// ErrExhausted wraps the last transient failure once the retry budget
	// is spent.
	ErrExhausted = stderrors.New("retries exhausted")
)

func IsNotFound(err error) bool  { return Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return Is(err, ErrForbidden) }
func IsExhausted(err error) bool { return Is(err, ErrExhausted) }

// IsAbsent reports whether err represents a legitimate "no result" outcome
// rather than a fault: the resource is confirmed missing, access is denied,
// or the upstream never produced a usable response.
func IsAbsent(err error) bool {
	return IsNotFound(err) || IsForbidden(err) || IsExhausted(err)
}

// Exhausted wraps the last transient failure in ErrExhausted.
func Exhausted(last error) error {
	if last == nil {
		return ErrExhausted
	}
	return fmt.Errorf("%w: %w", ErrExhausted, last)
}

// MissingFieldError reports a required structural element absent from fetched
// markup. The fetch succeeded; the source page changed shape.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q not found in markup", e.Field)
}

// MissingField creates a MissingFieldError for the named field.
func MissingField(field string) error {
	return &MissingFieldError{Field: field}
}

// IsMissingField reports whether err is a MissingFieldError.
func IsMissingField(err error) bool {
	var m *MissingFieldError
	return As(err, &m)
}

// ConfigError reports invalid adapter wiring. It is fatal at construction
// time and never reaches request-handling code.
type ConfigError struct {
	Component string
	Reason    string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Component, e.Reason)
}

// Config creates a ConfigError for the named component.
func Config(component, format string, args ...interface{}) error {
	return &ConfigError{Component: component, Reason: fmt.Sprintf(format, args...)}
}

// IsConfig reports whether err is a ConfigError.
func IsConfig(err error) bool {
	var c *ConfigError
	return As(err, &c)
}
