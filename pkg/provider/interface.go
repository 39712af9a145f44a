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

// Package provider defines the uniform per-site contract. A provider (the
// spider of one site) composes a fetch client, an extraction pipeline and a
// search-session factory behind these operations.
package provider

import (
	"context"

	"Kumo/pkg/core"
	"Kumo/pkg/engine/search"
)

// Provider is the per-site adapter contract.
//
// GetManga and GetChapter return the sentinel errors.ErrNotFound /
// errors.ErrForbidden for confirmed-absent resources; callers treat those as
// legitimate empty outcomes (errors.IsAbsent), unlike extraction failures,
// which mean the site changed shape.
type Provider interface {
	ID() string
	Name() string
	Description() string
	SiteURL() string

	GetManga(ctx context.Context, url string) (*core.MangaDetail, error)
	GetChapter(ctx context.Context, url string) (*core.Chapter, error)
	GetAggregate(ctx context.Context, url string) (*core.MangaAggregate, error)

	Search(ctx context.Context, query string) (*search.Session, error)
	SearchByGenres(ctx context.Context, genres []string) (*search.Session, error)
	Genres(ctx context.Context) ([]string, error)
}
