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

package providers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"Kumo/pkg/core"
	"Kumo/pkg/engine"
	"Kumo/pkg/engine/parser"
	"Kumo/pkg/errors"
	"Kumo/pkg/provider"
	"Kumo/pkg/provider/base"
	"Kumo/pkg/provider/registry"
)

func init() {
	registry.Register(NewKissManga)
}

const kissMangaBase = "https://kissmanga.in"

// NewKissManga builds the KissManga provider, a Madara WordPress theme site.
func NewKissManga(e *engine.Engine) (provider.Provider, error) {
	return base.New(e, base.Config{
		ID:          "kmg",
		Name:        "KissManga",
		Description: "Manga reader on the Madara theme with daily updates",
		BaseURL:     kissMangaBase,
		Client: core.SiteConfig{
			Headers: map[string]string{
				"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
				"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
				"Accept-Language": "en-US,en;q=0.9",
				"Referer":         kissMangaBase + "/",
			},
		},
	}, &madaraSite{base: kissMangaBase})
}

// madaraSite extracts the selectors shared by Madara-theme sites. Other
// Madara deployments can reuse it with a different base URL.
type madaraSite struct {
	base string
}

func (s *madaraSite) SearchURL(query string, page int) string {
	return fmt.Sprintf("%s/page/%d/?s=%s&post_type=wp-manga",
		s.base, page, url.QueryEscape(query))
}

func (s *madaraSite) GenresSearchURL(genres []string, page int) string {
	slugs := make([]string, len(genres))
	for i, genre := range genres {
		slugs[i] = genreSlug(genre)
	}
	return fmt.Sprintf("%s/manga-genre/%s/page/%d/",
		s.base, strings.Join(slugs, "+"), page)
}

func (s *madaraSite) GenresPageURL() string {
	return s.base + "/?s=&post_type=wp-manga"
}

func (s *madaraSite) ExtractDetail(doc *goquery.Document) (*core.MangaDetail, error) {
	title := parser.Text(doc.Find("div.post-title h1").First())
	if title == "" {
		return nil, errors.MissingField("title")
	}

	poster, ok := parser.Attr(doc.Find("div.summary_image img").First(), "data-src", "src")
	if !ok {
		return nil, errors.MissingField("poster")
	}

	pageURL, ok := parser.Attr(doc.Find(`link[rel="canonical"]`).First(), "href")
	if !ok {
		pageURL, ok = parser.Attr(doc.Find(`meta[property="og:url"]`).First(), "content")
	}
	if !ok {
		return nil, errors.MissingField("url")
	}

	var genres []string
	doc.Find("div.genres-content a").Each(func(_ int, a *goquery.Selection) {
		if genre := parser.Text(a); genre != "" {
			genres = append(genres, genre)
		}
	})

	var chapters []string
	doc.Find("li.wp-manga-chapter > a").Each(func(_ int, a *goquery.Selection) {
		if href, ok := parser.Attr(a, "href"); ok {
			chapters = append(chapters, parser.ResolveURL(s.base, href))
		}
	})

	return &core.MangaDetail{
		Manga: core.Manga{
			Title:  title,
			Poster: parser.ResolveURL(s.base, poster),
			URL:    parser.ResolveURL(s.base, pageURL),
		},
		Genres:   genres,
		Author:   parser.Text(doc.Find("div.author-content a").First()),
		Language: parser.Text(doc.Find("div.summary-language .summary-content").First()),
		Chapters: chapters,
	}, nil
}

func (s *madaraSite) ExtractListing(doc *goquery.Document) ([]core.Manga, error) {
	var result []core.Manga
	var failed error

	doc.Find("div.c-tabs-item__content").EachWithBreak(func(_ int, card *goquery.Selection) bool {
		link := card.Find("div.post-title h3 a").First()
		href, hrefOK := parser.Attr(link, "href")
		poster, posterOK := parser.Attr(card.Find("div.tab-thumb img").First(), "data-src", "src")
		title := parser.Text(link)

		if !hrefOK || !posterOK || title == "" {
			failed = errors.MissingField("search result card")
			return false
		}
		result = append(result, core.Manga{
			Title:  title,
			Poster: parser.ResolveURL(s.base, poster),
			URL:    parser.ResolveURL(s.base, href),
		})
		return true
	})

	if failed != nil {
		return nil, failed
	}
	return result, nil
}

func (s *madaraSite) ExtractChapter(doc *goquery.Document, chapterURL string) (*core.Chapter, error) {
	var gallery []string
	doc.Find("div.reading-content img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := parser.Attr(img, "data-src", "src"); ok {
			gallery = append(gallery, parser.ResolveURL(s.base, src))
		}
	})
	return &core.Chapter{URL: chapterURL, Gallery: gallery}, nil
}

func (s *madaraSite) ExtractMaxPage(doc *goquery.Document) int {
	maxPage := 0
	doc.Find("div.wp-pagenavi a, div.wp-pagenavi span").Each(func(_ int, el *goquery.Selection) {
		if n, err := strconv.Atoi(parser.Text(el)); err == nil && n > maxPage {
			maxPage = n
		}
	})
	if maxPage < 1 {
		return 1
	}
	return maxPage
}

func (s *madaraSite) ExtractGenres(doc *goquery.Document) ([]string, error) {
	var genres []string
	doc.Find("div.checkbox-group div.checkbox label").Each(func(_ int, label *goquery.Selection) {
		if genre := parser.Text(label); genre != "" {
			genres = append(genres, genre)
		}
	})
	if len(genres) == 0 {
		return nil, errors.MissingField("genre filter list")
	}
	return genres, nil
}

func genreSlug(genre string) string {
	slug := strings.ToLower(strings.TrimSpace(genre))
	return strings.ReplaceAll(slug, " ", "-")
}
