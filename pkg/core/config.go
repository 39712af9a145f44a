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

package core

import (
	"net/url"
	"time"
)

// Proxy is one outbound proxy credential. Credentials are rotated per
// request, not per client, to spread load across exits.
type Proxy struct {
	URL      string `json:"url" mapstructure:"url"`
	Login    string `json:"login,omitempty" mapstructure:"login"`
	Password string `json:"password,omitempty" mapstructure:"password"`
}

// ProxyURL returns the proxy address with credentials applied, suitable for
// http.Transport.Proxy.
func (p Proxy) ProxyURL() (*url.URL, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return nil, err
	}
	if p.Login != "" {
		u.User = url.UserPassword(p.Login, p.Password)
	}
	return u, nil
}

// SiteConfig configures one site client. It is immutable per client instance
// and threaded through constructors; there is no process-wide configuration
// object.
type SiteConfig struct {
	// MaxConcurrent bounds requests in flight for one client instance.
	MaxConcurrent int
	// MaxRetries is the retry budget per request after the first attempt.
	MaxRetries int
	// BackoffBase separates attempts and paces successful fetches.
	BackoffBase time.Duration
	// UseJitter scales BackoffBase by a uniform random factor in [0,1].
	UseJitter bool
	// Timeout bounds a single attempt; exceeding it consumes one retry.
	Timeout time.Duration
	// Headers are applied to every request of the client.
	Headers map[string]string
	// Proxies is the rotation pool. Empty means direct connections.
	Proxies []Proxy
}

// DefaultSiteConfig returns the stock per-site defaults.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		MaxConcurrent: 5,
		MaxRetries:    3,
		BackoffBase:   2 * time.Second,
		UseJitter:     true,
		Timeout:       30 * time.Second,
	}
}

// Merged returns c with zero values replaced from fallback.
func (c SiteConfig) Merged(fallback SiteConfig) SiteConfig {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = fallback.MaxConcurrent
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = fallback.MaxRetries
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = fallback.BackoffBase
	}
	if c.Timeout <= 0 {
		c.Timeout = fallback.Timeout
	}
	if c.Headers == nil {
		c.Headers = fallback.Headers
	}
	if c.Proxies == nil {
		c.Proxies = fallback.Proxies
	}
	return c
}
