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

package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"Kumo/pkg/engine/search"
	"Kumo/pkg/errors"
	"Kumo/pkg/provider"
)

var (
	searchProvider string
	searchGenres   []string
	searchPages    int
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search for manga by title or genres",
	Long: "Search one provider (or all of them) by free-text query, or by genre\n" +
		"tags with --genres. Results are paginated; --pages controls how many\n" +
		"pages to print.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := ""
		if len(args) > 0 {
			query = args[0]
		}
		if query == "" && len(searchGenres) == 0 {
			return fmt.Errorf("provide a query or --genres")
		}

		providers := appEngine.AllProviders()
		if searchProvider != "" {
			p, err := appEngine.Provider(searchProvider)
			if err != nil {
				return err
			}
			providers = []provider.Provider{p}
		}

		ctx := cmd.Context()
		for _, p := range providers {
			if err := searchOne(ctx, p, query); err != nil {
				if errors.IsAbsent(err) {
					printWarning(fmt.Sprintf("%s: no results", p.ID()))
					continue
				}
				return err
			}
		}
		return nil
	},
}

func searchOne(ctx context.Context, p provider.Provider, query string) error {
	var session *search.Session
	var err error
	if len(searchGenres) > 0 {
		session, err = p.SearchByGenres(ctx, searchGenres)
	} else {
		session, err = p.Search(ctx, query)
	}
	if err != nil {
		return err
	}

	printHeader(fmt.Sprintf("%s (%d pages)", p.Name(), session.MaxPage()))

	pages := searchPages
	if pages <= 0 || pages > session.MaxPage() {
		pages = session.MaxPage()
	}
	for page, items := range session.AllPages(ctx) {
		if page > pages {
			break
		}
		printMangaTable(p.ID(), page, items)
	}
	return nil
}

func init() {
	searchCmd.Flags().StringVarP(&searchProvider, "provider", "p", "", "provider ID to search (default: all)")
	searchCmd.Flags().StringSliceVarP(&searchGenres, "genres", "g", nil, "search by genre tags instead of title")
	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "number of result pages to print (0 = all)")
	rootCmd.AddCommand(searchCmd)
}
