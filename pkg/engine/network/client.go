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

// Package network implements the bounded-concurrency retrying HTTP client
// that every site provider owns. The client never caches; caching belongs to
// the search session.
package network

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"Kumo/pkg/core"
	"Kumo/pkg/errors"
)

// Client executes HTTP requests for one site. At most cfg.MaxConcurrent
// requests are in flight at once; additional callers block on the admission
// gate until a slot frees. Each request retries transient failures up to
// cfg.MaxRetries times and paces itself after every successful fetch to
// stay under the upstream's radar.
type Client struct {
	cfg  core.SiteConfig
	http *http.Client
	gate chan struct{}
	log  *logrus.Entry
}

// NewClient creates a client from cfg. Zero values are replaced with the
// package defaults so a partially filled config is usable.
func NewClient(cfg core.SiteConfig, log *logrus.Entry) *Client {
	cfg = cfg.Merged(core.DefaultSiteConfig())

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if len(cfg.Proxies) > 0 {
		proxies := cfg.Proxies
		// One credential chosen uniformly at random per request, not per
		// client, so a single blocked exit does not take the site down.
		transport.Proxy = func(*http.Request) (*url.URL, error) {
			return proxies[rand.IntN(len(proxies))].ProxyURL()
		}
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		gate: make(chan struct{}, cfg.MaxConcurrent),
		log:  log,
	}
}

// Request performs one fetch with admission control, retries and pacing.
//
// 404 and 403 are terminal: ErrNotFound / ErrForbidden immediately, no
// retry. Any other failure is retried up to the budget; exhaustion returns
// ErrExhausted wrapping the last failure and is logged at error level so
// operators can tell a flaky upstream from a missing page.
func (c *Client) Request(ctx context.Context, method, rawURL string, opts *RequestOptions) ([]byte, error) {
	select {
	case c.gate <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-c.gate }()

	log := c.log.WithFields(logrus.Fields{"method": method, "url": rawURL})
	log.Debug("fetching page")

	attempt := func() ([]byte, error) {
		return c.do(ctx, method, rawURL, opts)
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).Warnf("fetch failed, retrying in %s", wait.Round(time.Millisecond))
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(c.delay(), uint64(c.cfg.MaxRetries)), ctx)

	body, err := backoff.RetryNotifyWithData(attempt, policy, notify)
	if err != nil {
		if errors.IsNotFound(err) || errors.IsForbidden(err) {
			log.WithError(err).Warn("page absent")
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Errorf("giving up after %d attempts", c.cfg.MaxRetries+1)
		return nil, errors.Exhausted(err)
	}

	log.WithField("bytes", len(body)).Debug("fetched page")

	// Pace after success too, while still holding the gate slot, to
	// throttle the overall request rate.
	c.sleep(ctx)
	return body, nil
}

// GetBytes fetches rawURL with GET and returns the raw body.
func (c *Client) GetBytes(ctx context.Context, rawURL string, opts *RequestOptions) ([]byte, error) {
	return c.Request(ctx, http.MethodGet, rawURL, opts)
}

// GetText fetches rawURL with GET and returns the body as text.
func (c *Client) GetText(ctx context.Context, rawURL string, opts *RequestOptions) (string, error) {
	body, err := c.Request(ctx, http.MethodGet, rawURL, opts)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Post fetches rawURL with POST and returns the raw body.
func (c *Client) Post(ctx context.Context, rawURL string, opts *RequestOptions) ([]byte, error) {
	return c.Request(ctx, http.MethodPost, rawURL, opts)
}

// MaxConcurrent reports the admission gate capacity.
func (c *Client) MaxConcurrent() int {
	return cap(c.gate)
}

// do performs a single attempt. Terminal outcomes are wrapped in
// backoff.Permanent so the retry loop stops immediately.
func (c *Client) do(ctx context.Context, method, rawURL string, opts *RequestOptions) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}

	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}
	opts.apply(req)

	resp, err := c.http.Do(req)
	if err != nil {
		// Network errors and per-attempt timeouts are retryable.
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(errors.ErrNotFound)
	case resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(errors.ErrForbidden)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// delay builds the inter-attempt policy: BackoffBase scaled by a uniform
// random factor in [0,1] when jitter is enabled, else the fixed base.
func (c *Client) delay() backoff.BackOff {
	return &pacer{base: c.cfg.BackoffBase, jitter: c.cfg.UseJitter}
}

// sleep applies the same pacing delay after a successful fetch.
func (c *Client) sleep(ctx context.Context) {
	wait := c.delay().NextBackOff()
	if wait <= 0 {
		return
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

// pacer is a constant-with-jitter backoff policy.
type pacer struct {
	base   time.Duration
	jitter bool
}

func (p *pacer) NextBackOff() time.Duration {
	if p.jitter {
		return time.Duration(float64(p.base) * rand.Float64())
	}
	return p.base
}

func (p *pacer) Reset() {}
