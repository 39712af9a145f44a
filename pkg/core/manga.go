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

// Manga is the summary record produced by listing-page extraction.
// Its identity is the page URL.
type Manga struct {
	Title  string `json:"title"`
	Poster string `json:"poster"`
	URL    string `json:"url"`
}

// MangaDetail is the full record produced by detail-page extraction.
// Chapters holds chapter page URLs in the publication order found on the
// source page.
type MangaDetail struct {
	Manga
	Genres   []string `json:"genres"`
	Author   string   `json:"author,omitempty"`
	Language string   `json:"language,omitempty"`
	Chapters []string `json:"chapters"`
}

// Chapter is one resolved chapter. Gallery is never empty for a successfully
// parsed chapter; an empty gallery is an extraction failure, not a valid
// result.
type Chapter struct {
	URL     string   `json:"url"`
	Gallery []string `json:"gallery"`
}

// MangaAggregate is a MangaDetail with every chapter resolved. Chapters
// replaces the detail's URL list and preserves its order regardless of the
// completion order of the underlying fetches.
type MangaAggregate struct {
	MangaDetail
	Chapters []Chapter `json:"chapters"`
}
