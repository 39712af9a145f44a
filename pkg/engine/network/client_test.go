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

package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Kumo/pkg/core"
	"Kumo/pkg/errors"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

// quickConfig keeps retries realistic but backoff near zero so the retry
// tests run in milliseconds.
func quickConfig(maxConcurrent, maxRetries int) core.SiteConfig {
	return core.SiteConfig{
		MaxConcurrent: maxConcurrent,
		MaxRetries:    maxRetries,
		BackoffBase:   time.Millisecond,
		UseJitter:     false,
		Timeout:       5 * time.Second,
	}
}

func TestClientConcurrencyBound(t *testing.T) {
	const limit = 2
	const callers = 8

	var inFlight, peak int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			old := atomic.LoadInt64(&peak)
			if n <= old || atomic.CompareAndSwapInt64(&peak, old, n) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(quickConfig(limit, 0), testLogger())
	require.Equal(t, limit, c.MaxConcurrent())

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := c.GetBytes(context.Background(), srv.URL, nil)
			assert.NoError(t, err)
			assert.Equal(t, "ok", string(body))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(limit),
		"more than %d requests were in flight at once", limit)
}

func TestClientNotFoundIsTerminal(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(quickConfig(1, 3), testLogger())
	_, err := c.GetBytes(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
	assert.True(t, errors.IsAbsent(err))
	assert.EqualValues(t, 1, atomic.LoadInt64(&requests), "404 must not be retried")
}

func TestClientForbiddenIsTerminal(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(quickConfig(1, 3), testLogger())
	_, err := c.GetBytes(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.IsForbidden(err))
	assert.EqualValues(t, 1, atomic.LoadInt64(&requests), "403 must not be retried")
}

func TestClientRetriesServerErrorsUntilExhausted(t *testing.T) {
	const maxRetries = 3

	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&requests, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(quickConfig(1, maxRetries), testLogger())
	_, err := c.GetBytes(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.IsExhausted(err))
	assert.True(t, errors.IsAbsent(err))
	assert.EqualValues(t, maxRetries+1, atomic.LoadInt64(&requests),
		"expected the initial attempt plus %d retries", maxRetries)
}

func TestClientRecoversAfterTransientFailure(t *testing.T) {
	var requests int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&requests, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("finally"))
	}))
	defer srv.Close()

	c := NewClient(quickConfig(1, 3), testLogger())
	body, err := c.GetBytes(context.Background(), srv.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, "finally", string(body))
	assert.EqualValues(t, 3, atomic.LoadInt64(&requests))
}

func TestClientNetworkErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // every attempt now fails at the dial

	c := NewClient(quickConfig(1, 2), testLogger())
	_, err := c.GetBytes(context.Background(), srv.URL, nil)

	require.Error(t, err)
	assert.True(t, errors.IsExhausted(err))
}

func TestClientHonorsContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c := NewClient(quickConfig(1, 5), testLogger())
	_, err := c.GetBytes(ctx, srv.URL, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientAppliesRequestOptions(t *testing.T) {
	var gotReferer, gotHeader, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		gotHeader = r.Header.Get("X-Requested-With")
		if cookie, err := r.Cookie("session"); err == nil {
			gotCookie = cookie.Value
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := quickConfig(1, 0)
	cfg.Headers = map[string]string{"X-Requested-With": "XMLHttpRequest"}

	c := NewClient(cfg, testLogger())
	_, err := c.GetBytes(context.Background(), srv.URL, &RequestOptions{
		Referer: "https://multi-manga.today/",
		Cookies: []*http.Cookie{{Name: "session", Value: "abc123"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "https://multi-manga.today/", gotReferer)
	assert.Equal(t, "XMLHttpRequest", gotHeader)
	assert.Equal(t, "abc123", gotCookie)
}

func TestClientDefaultsFillZeroConfig(t *testing.T) {
	c := NewClient(core.SiteConfig{}, testLogger())
	assert.Equal(t, core.DefaultSiteConfig().MaxConcurrent, c.MaxConcurrent())
}
