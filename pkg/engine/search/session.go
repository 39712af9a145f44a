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

// Package search implements the stateful paginated find engine. A session
// owns a page cursor and a TTL page cache; it drives the site's fetch client
// for misses and hands markup to the listing extractor.
package search

import (
	"context"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"Kumo/pkg/core"
	"Kumo/pkg/engine/parser"
	"Kumo/pkg/errors"
)

// Mode selects how the session builds page URLs. Extraction and caching are
// identical across modes.
type Mode string

const (
	ByTitle  Mode = "title"
	ByGenres Mode = "genres"
)

// Fetch retrieves raw markup for one URL. Sessions hold a reference to the
// provider's client through this hook; they never own transport state.
type Fetch func(ctx context.Context, url string) ([]byte, error)

// Config wires one session. Mode, query and the URL builder are fixed for
// the session's lifetime.
type Config struct {
	Mode   Mode
	Query  string
	Genres []string

	// PageURL builds the results URL for a page number in this session's
	// mode.
	PageURL func(page int) string
	// Fetch retrieves markup (the provider's fetch client).
	Fetch Fetch
	// Listing parses one results page.
	Listing parser.ListingExtractor
	// MaxPage reads the page count off the first response.
	MaxPage parser.MaxPageExtractor

	// CacheSize and CacheTTL override the cache defaults when positive.
	CacheSize int
	CacheTTL  time.Duration

	Log *logrus.Entry
}

func (c Config) validate() error {
	if c.PageURL == nil {
		return errors.Config("search session", "page URL builder not set")
	}
	if c.Fetch == nil {
		return errors.Config("search session", "fetch hook not set")
	}
	if c.Listing == nil {
		return errors.Config("search session", "listing extractor not set")
	}
	if c.MaxPage == nil {
		return errors.Config("search session", "max-page extractor not set")
	}
	return nil
}

// Session is a paginated search in progress. The zero value is not usable;
// Start performs the first fetch and resolves the page count.
type Session struct {
	id  string
	cfg Config
	log *logrus.Entry

	mu      sync.Mutex
	page    int
	maxPage int
	cache   *pageCache
}

// Start opens a session: it fetches the first results page, resolves the
// maximum page number from it and primes the cache. maxPage is -1 only
// transiently inside this function; a returned session always knows its
// bounds.
func Start(ctx context.Context, cfg Config) (*Session, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	log := cfg.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	s := &Session{
		id:      uuid.NewString(),
		cfg:     cfg,
		page:    1,
		maxPage: -1,
		cache:   newPageCache(cfg.CacheSize, cfg.CacheTTL),
	}
	s.log = log.WithFields(logrus.Fields{"session": s.id, "mode": cfg.Mode})

	markup, err := cfg.Fetch(ctx, cfg.PageURL(1))
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(markup)
	if err != nil {
		return nil, err
	}

	s.maxPage = cfg.MaxPage.ExtractMaxPage(doc)
	if s.maxPage < 1 {
		s.maxPage = 1
	}

	first, err := cfg.Listing.ExtractListing(doc)
	if err != nil {
		return nil, err
	}
	s.cache.put(1, first)

	s.log.WithFields(logrus.Fields{"max_page": s.maxPage, "results": len(first)}).
		Debug("search session started")
	return s, nil
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

// Mode returns the session's find mode.
func (s *Session) Mode() Mode { return s.cfg.Mode }

// CurrentPage returns the cursor position.
func (s *Session) CurrentPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page
}

// MaxPage returns the resolved page count.
func (s *Session) MaxPage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxPage
}

// NextPage advances the cursor and returns the new page.
func (s *Session) NextPage(ctx context.Context) ([]core.Manga, error) {
	return s.SelectPage(ctx, s.CurrentPage()+1)
}

// BackPage moves the cursor back and returns the new page.
func (s *Session) BackPage(ctx context.Context) ([]core.Manga, error) {
	return s.SelectPage(ctx, s.CurrentPage()-1)
}

// SelectPage moves the cursor to page and returns its results.
//
// Out-of-range pages return an empty slice and log a warning; callers probe
// boundaries routinely and that is not an error. On a cache hit no network
// I/O happens. A fetch failure also degrades to an empty page, while an
// extraction failure propagates: the page was fetched but could not be
// understood, which must reach operators.
func (s *Session) SelectPage(ctx context.Context, page int) ([]core.Manga, error) {
	s.mu.Lock()
	if page < 1 || page > s.maxPage {
		maxPage := s.maxPage
		s.mu.Unlock()
		s.log.WithFields(logrus.Fields{"page": page, "max_page": maxPage}).
			Warn("page out of range")
		return []core.Manga{}, nil
	}
	s.page = page
	if items, ok := s.cache.get(page); ok {
		s.mu.Unlock()
		s.log.WithField("page", page).Debug("page served from cache")
		return items, nil
	}
	s.mu.Unlock()

	// Fetch outside the lock. Two concurrent misses on the same page may
	// both fetch; the second write wins and both observe consistent state.
	markup, err := s.cfg.Fetch(ctx, s.cfg.PageURL(page))
	if err != nil {
		s.log.WithError(err).WithField("page", page).Error("failed to fetch results page")
		return []core.Manga{}, nil
	}

	items, err := s.parseListing(markup)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache.put(page, items)
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{"page": page, "results": len(items)}).
		Debug("page fetched")
	return items, nil
}

// AllPages iterates every page from 1 to maxPage through SelectPage, so
// cache and pacing semantics apply uniformly. The sequence is finite and
// restartable by calling AllPages again.
func (s *Session) AllPages(ctx context.Context) iter.Seq2[int, []core.Manga] {
	return func(yield func(int, []core.Manga) bool) {
		for page := 1; page <= s.MaxPage(); page++ {
			items, err := s.SelectPage(ctx, page)
			if err != nil {
				s.log.WithError(err).WithField("page", page).Error("stopping page iteration")
				return
			}
			if !yield(page, items) {
				return
			}
		}
	}
}

func (s *Session) parseListing(markup []byte) ([]core.Manga, error) {
	doc, err := parser.Parse(markup)
	if err != nil {
		return nil, err
	}
	return s.cfg.Listing.ExtractListing(doc)
}
