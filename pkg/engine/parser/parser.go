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

// Package parser holds the extraction pipeline: pure transforms from fetched
// markup to the core records. No network I/O and no caching happen here,
// which is what lets search sessions replay pages without re-fetching.
package parser

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Parse builds a queryable document from raw markup.
func Parse(markup []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(markup))
}

// ResolveURL resolves href against base unless href is already absolute.
// Every extracted URL goes through here so normalization behaves the same
// across all sites; extractors never do their own joining.
func ResolveURL(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}

// Attr returns the first present attribute from names, trying them in order.
// Sites shuffle image sources between src and data-src depending on lazy
// loading.
func Attr(sel *goquery.Selection, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := sel.Attr(name); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

// Text returns the trimmed text of sel.
func Text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}
