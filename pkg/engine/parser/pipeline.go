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

package parser

import (
	"github.com/PuerkitoBio/goquery"

	"Kumo/pkg/core"
	"Kumo/pkg/errors"
)

// DetailExtractor turns a detail page into a MangaDetail.
type DetailExtractor interface {
	ExtractDetail(doc *goquery.Document) (*core.MangaDetail, error)
}

// ListingExtractor turns a listing/search-results page into summaries,
// preserving document order.
type ListingExtractor interface {
	ExtractListing(doc *goquery.Document) ([]core.Manga, error)
}

// ChapterExtractor turns a chapter page into a Chapter. url is the page the
// markup was fetched from; it becomes the chapter identity.
type ChapterExtractor interface {
	ExtractChapter(doc *goquery.Document, url string) (*core.Chapter, error)
}

// MaxPageExtractor reads the page count from the first results page of a
// search. Zero or negative means "could not tell"; the session treats that
// as a single page.
type MaxPageExtractor interface {
	ExtractMaxPage(doc *goquery.Document) int
}

// Pipeline bundles the three extractor roles of one site.
type Pipeline struct {
	Detail  DetailExtractor
	Listing ListingExtractor
	Chapter ChapterExtractor
}

// NewPipeline validates that every role is actually supplied. A site adapter
// missing a role is a wiring mistake and must fail here, not on first use.
func NewPipeline(detail DetailExtractor, listing ListingExtractor, chapter ChapterExtractor) (*Pipeline, error) {
	if detail == nil {
		return nil, errors.Config("pipeline", "detail extractor not implemented")
	}
	if listing == nil {
		return nil, errors.Config("pipeline", "listing extractor not implemented")
	}
	if chapter == nil {
		return nil, errors.Config("pipeline", "chapter extractor not implemented")
	}
	return &Pipeline{Detail: detail, Listing: listing, Chapter: chapter}, nil
}

// ParseDetail parses markup and runs the detail extractor.
func (p *Pipeline) ParseDetail(markup []byte) (*core.MangaDetail, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	return p.Detail.ExtractDetail(doc)
}

// ParseListing parses markup and runs the listing extractor.
func (p *Pipeline) ParseListing(markup []byte) ([]core.Manga, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	return p.Listing.ExtractListing(doc)
}

// ParseChapter parses markup and runs the chapter extractor. An empty
// gallery is rejected here so no site adapter can hand back a hollow
// chapter as a success.
func (p *Pipeline) ParseChapter(markup []byte, url string) (*core.Chapter, error) {
	doc, err := Parse(markup)
	if err != nil {
		return nil, err
	}
	chapter, err := p.Chapter.ExtractChapter(doc, url)
	if err != nil {
		return nil, err
	}
	if len(chapter.Gallery) == 0 {
		return nil, errors.MissingField("gallery")
	}
	return chapter, nil
}
