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
	registry.Register(NewMultiManga)
}

const multiMangaBase = "https://multi-manga.today"

// Tag-section labels as they appear on the site.
const (
	mmLabelGenres   = "Теги"
	mmLabelAuthor   = "Автор"
	mmLabelLanguage = "Язык"
)

// NewMultiManga builds the multi-manga.today provider. The site serves
// single-chapter galleries: the detail page itself is the chapter, so the
// chapter list is just the canonical page URL.
func NewMultiManga(e *engine.Engine) (provider.Provider, error) {
	return base.New(e, base.Config{
		ID:          "mlm",
		Name:        "MultiManga",
		Description: "Manga galleries with tag-based search",
		BaseURL:     multiMangaBase,
	}, &multiMangaSite{base: multiMangaBase})
}

type multiMangaSite struct {
	base string
}

func (s *multiMangaSite) SearchURL(query string, page int) string {
	return fmt.Sprintf(
		"%s/index.php?do=search&subaction=search&search_start=%d&full_search=1&story=%s",
		s.base, page, url.QueryEscape(query))
}

func (s *multiMangaSite) GenresSearchURL(genres []string, page int) string {
	escaped := make([]string, len(genres))
	for i, genre := range genres {
		escaped[i] = url.PathEscape(genre)
	}
	return fmt.Sprintf("%s/f/n.m.tags=%s/sort=date/order=desc/page/%d/",
		s.base, strings.Join(escaped, ","), page)
}

func (s *multiMangaSite) GenresPageURL() string {
	return s.base + "/tags/"
}

func (s *multiMangaSite) ExtractDetail(doc *goquery.Document) (*core.MangaDetail, error) {
	title := parser.Text(doc.Find("div#info h1").First())
	if title == "" {
		return nil, errors.MissingField("title")
	}

	poster, ok := parser.Attr(doc.Find("div#cover img").First(), "data-src", "src")
	if !ok {
		return nil, errors.MissingField("poster")
	}

	pageURL, ok := parser.Attr(doc.Find(`link[rel="canonical"]`).First(), "href")
	if !ok {
		return nil, errors.MissingField("url")
	}
	pageURL = parser.ResolveURL(s.base, pageURL)

	tags := s.tagSections(doc)
	detail := &core.MangaDetail{
		Manga: core.Manga{
			Title:  title,
			Poster: parser.ResolveURL(s.base, poster),
			URL:    pageURL,
		},
		Genres:   tags[mmLabelGenres],
		Author:   first(tags[mmLabelAuthor]),
		Language: first(tags[mmLabelLanguage]),
		// The gallery lives on the detail page itself.
		Chapters: []string{pageURL},
	}
	return detail, nil
}

func (s *multiMangaSite) ExtractListing(doc *goquery.Document) ([]core.Manga, error) {
	var result []core.Manga
	var failed error

	doc.Find("div.container.index-container div#dle-content div.gallery").
		EachWithBreak(func(_ int, card *goquery.Selection) bool {
			link, linkOK := parser.Attr(card.Find("a").First(), "href")
			poster, posterOK := parser.Attr(card.Find("img").First(), "src", "data-src")
			title := parser.Text(card)

			if !linkOK || !posterOK || title == "" {
				failed = errors.MissingField("gallery card")
				return false
			}
			result = append(result, core.Manga{
				Title:  title,
				Poster: parser.ResolveURL(s.base, poster),
				URL:    parser.ResolveURL(s.base, link),
			})
			return true
		})

	if failed != nil {
		return nil, failed
	}
	return result, nil
}

func (s *multiMangaSite) ExtractChapter(doc *goquery.Document, chapterURL string) (*core.Chapter, error) {
	var gallery []string
	doc.Find("div#thumbnail-container div.thumb-container img").
		Each(func(_ int, img *goquery.Selection) {
			if src, ok := parser.Attr(img, "data-src", "src"); ok {
				gallery = append(gallery, parser.ResolveURL(s.base, src))
			}
		})
	return &core.Chapter{URL: chapterURL, Gallery: gallery}, nil
}

func (s *multiMangaSite) ExtractMaxPage(doc *goquery.Document) int {
	maxPage := 0
	doc.Find("section.pagination a").Each(func(_ int, a *goquery.Selection) {
		if n, err := strconv.Atoi(parser.Text(a)); err == nil && n > maxPage {
			maxPage = n
		}
	})
	if maxPage < 1 {
		return 1
	}
	return maxPage
}

func (s *multiMangaSite) ExtractGenres(doc *goquery.Document) ([]string, error) {
	var genres []string
	doc.Find("a.tag").Each(func(_ int, a *goquery.Selection) {
		if name := parser.Text(a); name != "" {
			genres = append(genres, name)
		}
	})
	if len(genres) == 0 {
		return nil, errors.MissingField("tags")
	}
	return genres, nil
}

// tagSections reads the labelled tag containers: the label is the first
// text node of the container, the values are its a.tag children.
func (s *multiMangaSite) tagSections(doc *goquery.Document) map[string][]string {
	sections := make(map[string][]string)
	doc.Find("section#tags div.tag-container").Each(func(_ int, container *goquery.Selection) {
		label := ""
		container.Contents().EachWithBreak(func(_ int, node *goquery.Selection) bool {
			if goquery.NodeName(node) == "#text" {
				label = strings.TrimSpace(node.Text())
				return label == ""
			}
			return true
		})
		if label == "" {
			return
		}
		var values []string
		container.Find("a.tag").Each(func(_ int, tag *goquery.Selection) {
			if v := parser.Text(tag); v != "" {
				values = append(values, v)
			}
		})
		sections[label] = values
	})
	return sections
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
