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

package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAbsenceSentinels(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsForbidden(ErrForbidden))
	assert.True(t, IsExhausted(ErrExhausted))

	for _, err := range []error{ErrNotFound, ErrForbidden, ErrExhausted} {
		assert.True(t, IsAbsent(err))
		assert.True(t, IsAbsent(fmt.Errorf("wrapped: %w", err)), "wrapping must not hide absence")
	}

	assert.False(t, IsAbsent(New("some fault")))
	assert.False(t, IsAbsent(nil))
}

func TestExhaustedKeepsTheLastFailure(t *testing.T) {
	last := New("connection reset")
	err := Exhausted(last)

	assert.True(t, IsExhausted(err))
	assert.True(t, Is(err, last), "the last transient failure must stay inspectable")
	assert.Contains(t, err.Error(), "connection reset")

	assert.True(t, IsExhausted(Exhausted(nil)))
}

func TestMissingField(t *testing.T) {
	err := MissingField("title")
	assert.True(t, IsMissingField(err))
	assert.False(t, IsAbsent(err), "a shape change is a fault, not an absence")
	assert.Contains(t, err.Error(), "title")

	var m *MissingFieldError
	assert.True(t, As(err, &m))
	assert.Equal(t, "title", m.Field)
}

func TestConfigError(t *testing.T) {
	err := Config("provider", "base URL not set")
	assert.True(t, IsConfig(err))
	assert.False(t, IsMissingField(err))
	assert.Contains(t, err.Error(), "provider")
	assert.Contains(t, err.Error(), "base URL not set")
}
