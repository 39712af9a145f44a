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

// Package engine holds the provider registry and routes lookups by id or by
// URL. Providers own their transport and parsing; the engine only composes.
package engine

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"Kumo/pkg/core"
	"Kumo/pkg/engine/logger"
	"Kumo/pkg/provider"
)

// Engine composes the registered providers and the default site
// configuration handed to them at construction.
type Engine struct {
	Logger *logrus.Entry
	Config core.SiteConfig

	providers map[string]provider.Provider
	mu        sync.RWMutex
}

// New creates an engine with the default site configuration.
func New() *Engine {
	return NewWithConfig(core.DefaultSiteConfig())
}

// NewWithConfig creates an engine whose providers inherit cfg unless they
// override it.
func NewWithConfig(cfg core.SiteConfig) *Engine {
	return &Engine{
		Logger:    logger.Named("engine"),
		Config:    cfg,
		providers: make(map[string]provider.Provider),
	}
}

// RegisterProvider adds a provider to the registry. Duplicate ids are a
// wiring mistake.
func (e *Engine) RegisterProvider(p provider.Provider) error {
	if p == nil {
		return fmt.Errorf("provider is nil")
	}
	id := p.ID()
	if id == "" {
		return fmt.Errorf("provider has empty ID")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, exists := e.providers[id]; exists {
		return fmt.Errorf("provider with ID %q already registered", id)
	}
	e.providers[id] = p
	e.Logger.WithFields(logrus.Fields{"provider": id, "site": p.SiteURL()}).
		Info("registered provider")
	return nil
}

// Provider retrieves a registered provider by id.
func (e *Engine) Provider(id string) (provider.Provider, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.providers[id]
	if !ok {
		return nil, fmt.Errorf("provider %q not found (available: %s)",
			id, strings.Join(e.ids(), ", "))
	}
	return p, nil
}

// ProviderForURL routes a raw URL to the provider whose site hosts it.
func (e *Engine) ProviderForURL(raw string) (provider.Provider, error) {
	target, err := url.Parse(raw)
	if err != nil || target.Host == "" {
		return nil, fmt.Errorf("cannot route %q: not a valid absolute URL", raw)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, p := range e.providers {
		site, err := url.Parse(p.SiteURL())
		if err != nil {
			continue
		}
		if sameHost(target.Host, site.Host) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("no provider registered for host %q", target.Host)
}

// AllProviders returns the registered providers sorted by id.
func (e *Engine) AllProviders() []provider.Provider {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]provider.Provider, 0, len(e.providers))
	for _, p := range e.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// ProviderCount returns the number of registered providers.
func (e *Engine) ProviderCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.providers)
}

func (e *Engine) ids() []string {
	ids := make([]string, 0, len(e.providers))
	for id := range e.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sameHost(a, b string) bool {
	return strings.TrimPrefix(strings.ToLower(a), "www.") ==
		strings.TrimPrefix(strings.ToLower(b), "www.")
}
