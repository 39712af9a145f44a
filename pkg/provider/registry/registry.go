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

// Package registry collects provider constructors at init time so the
// composition root can load every site adapter with one call.
package registry

import (
	"sync"

	"Kumo/pkg/engine"
	"Kumo/pkg/provider"
)

// Constructor builds a provider against an engine. Construction may fail
// with a configuration error; that failure is fatal for the whole load.
type Constructor func(*engine.Engine) (provider.Provider, error)

type registry struct {
	constructors []Constructor
	mu           sync.Mutex
}

var global = &registry{}

// Register adds a constructor. Site packages call this from init.
func Register(constructor Constructor) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.constructors = append(global.constructors, constructor)
}

// LoadAll constructs and registers every provider. A construction error
// aborts the load: misconfigured adapters must never reach request handling.
func LoadAll(e *engine.Engine) error {
	global.mu.Lock()
	constructors := make([]Constructor, len(global.constructors))
	copy(constructors, global.constructors)
	global.mu.Unlock()

	for _, constructor := range constructors {
		p, err := constructor(e)
		if err != nil {
			return err
		}
		if err := e.RegisterProvider(p); err != nil {
			return err
		}
	}

	e.Logger.WithField("providers", e.ProviderCount()).Info("providers loaded")
	return nil
}

// Clear drops all registered constructors. Tests use this to isolate
// registrations.
func Clear() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.constructors = global.constructors[:0]
}

// Count returns the number of registered constructors.
func Count() int {
	global.mu.Lock()
	defer global.mu.Unlock()
	return len(global.constructors)
}
