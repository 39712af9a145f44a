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

// Package base composes one site adapter out of the three capability roles:
// a fetch client, an extraction pipeline and a search-session factory. Site
// packages supply selectors and URL builders; everything else lives here.
package base

import (
	"context"
	"reflect"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"Kumo/pkg/core"
	"Kumo/pkg/engine"
	"Kumo/pkg/engine/logger"
	"Kumo/pkg/engine/network"
	"Kumo/pkg/engine/parser"
	"Kumo/pkg/engine/search"
	"Kumo/pkg/errors"
	"Kumo/pkg/provider"
)

// PlaceholderBaseURL is the unset marker. A provider constructed against it
// is a deployment mistake and must fail at construction, not at first use.
const PlaceholderBaseURL = "https://example.manga"

// Site is the per-site behavior bundle: the three extractor roles, the
// max-page reader and the URL builders for both find modes plus the genre
// index.
type Site interface {
	parser.DetailExtractor
	parser.ListingExtractor
	parser.ChapterExtractor
	parser.MaxPageExtractor

	SearchURL(query string, page int) string
	GenresSearchURL(genres []string, page int) string

	GenresPageURL() string
	ExtractGenres(doc *goquery.Document) ([]string, error)
}

// Config identifies one provider instance.
type Config struct {
	ID          string
	Name        string
	Description string
	BaseURL     string

	// Client overrides the engine-wide site configuration when non-zero.
	Client core.SiteConfig
}

// Provider is the composed spider. It exclusively owns its client and
// pipeline; search sessions returned to callers only borrow them.
type Provider struct {
	cfg      Config
	site     Site
	client   *network.Client
	pipeline *parser.Pipeline
	log      *logrus.Entry
}

var _ provider.Provider = (*Provider)(nil)

// New validates the wiring and composes the provider. All configuration
// errors surface here.
func New(e *engine.Engine, cfg Config, site Site) (*Provider, error) {
	if cfg.ID == "" {
		return nil, errors.Config("provider", "ID not set")
	}
	if cfg.BaseURL == "" || cfg.BaseURL == PlaceholderBaseURL {
		return nil, errors.Config(cfg.ID, "base URL not set")
	}
	if site == nil {
		return nil, errors.Config(cfg.ID, "site bundle not set")
	}

	pipeline, err := parser.NewPipeline(site, site, site)
	if err != nil {
		return nil, err
	}

	clientCfg := cfg.Client
	if reflect.DeepEqual(clientCfg, core.SiteConfig{}) {
		clientCfg = e.Config
	} else {
		clientCfg = clientCfg.Merged(e.Config)
	}

	log := logger.Named("provider").WithField("provider", cfg.ID)
	return &Provider{
		cfg:      cfg,
		site:     site,
		client:   network.NewClient(clientCfg, log),
		pipeline: pipeline,
		log:      log,
	}, nil
}

func (p *Provider) ID() string          { return p.cfg.ID }
func (p *Provider) Name() string        { return p.cfg.Name }
func (p *Provider) Description() string { return p.cfg.Description }
func (p *Provider) SiteURL() string     { return p.cfg.BaseURL }

// Client exposes the provider's fetch client for composition (search
// sessions, tests). Callers must not assume ownership.
func (p *Provider) Client() *network.Client { return p.client }

// GetManga fetches and extracts one detail page.
func (p *Provider) GetManga(ctx context.Context, url string) (*core.MangaDetail, error) {
	body, err := p.client.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return p.pipeline.ParseDetail(body)
}

// GetChapter fetches and extracts one chapter page.
func (p *Provider) GetChapter(ctx context.Context, url string) (*core.Chapter, error) {
	body, err := p.client.GetBytes(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return p.pipeline.ParseChapter(body, url)
}

// GetAggregate fetches a detail page and resolves all of its chapters
// concurrently, bounded by the shared client gate. Completed fetches are
// re-keyed by chapter URL so the output keeps the detail page's publication
// order no matter which fetch finishes first.
func (p *Provider) GetAggregate(ctx context.Context, url string) (*core.MangaAggregate, error) {
	detail, err := p.GetManga(ctx, url)
	if err != nil {
		return nil, err
	}

	type fetched struct {
		url     string
		chapter *core.Chapter
		err     error
	}

	workers := pool.NewWithResults[fetched]()
	for _, chapterURL := range detail.Chapters {
		workers.Go(func() fetched {
			chapter, err := p.GetChapter(ctx, chapterURL)
			return fetched{url: chapterURL, chapter: chapter, err: err}
		})
	}

	byURL := make(map[string]*core.Chapter, len(detail.Chapters))
	for _, result := range workers.Wait() {
		if result.err != nil {
			if errors.IsAbsent(result.err) {
				p.log.WithError(result.err).WithField("chapter", result.url).
					Warn("skipping unavailable chapter")
				continue
			}
			return nil, result.err
		}
		byURL[result.url] = result.chapter
	}

	chapters := make([]core.Chapter, 0, len(byURL))
	for _, chapterURL := range detail.Chapters {
		if chapter, ok := byURL[chapterURL]; ok {
			chapters = append(chapters, *chapter)
		}
	}

	return &core.MangaAggregate{MangaDetail: *detail, Chapters: chapters}, nil
}

// Search opens a by-title session. The first page is fetched before the
// session is returned.
func (p *Provider) Search(ctx context.Context, query string) (*search.Session, error) {
	return search.Start(ctx, search.Config{
		Mode:  search.ByTitle,
		Query: query,
		PageURL: func(page int) string {
			return p.site.SearchURL(query, page)
		},
		Fetch:   p.fetch,
		Listing: p.site,
		MaxPage: p.site,
		Log:     p.log,
	})
}

// SearchByGenres opens a by-genres session.
func (p *Provider) SearchByGenres(ctx context.Context, genres []string) (*search.Session, error) {
	return search.Start(ctx, search.Config{
		Mode:   search.ByGenres,
		Genres: genres,
		PageURL: func(page int) string {
			return p.site.GenresSearchURL(genres, page)
		},
		Fetch:   p.fetch,
		Listing: p.site,
		MaxPage: p.site,
		Log:     p.log,
	})
}

// Genres lists the genre tags the site exposes, in source order.
func (p *Provider) Genres(ctx context.Context) ([]string, error) {
	body, err := p.client.GetBytes(ctx, p.site.GenresPageURL(), nil)
	if err != nil {
		return nil, err
	}
	doc, err := parser.Parse(body)
	if err != nil {
		return nil, err
	}
	return p.site.ExtractGenres(doc)
}

func (p *Provider) fetch(ctx context.Context, url string) ([]byte, error) {
	return p.client.GetBytes(ctx, url, nil)
}
