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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"Kumo/pkg/errors"
)

var infoFull bool

var infoCmd = &cobra.Command{
	Use:   "info [url]",
	Short: "Show manga details for a page URL",
	Long: "Route the URL to its provider and print the detail record. With\n" +
		"--full, every chapter gallery is resolved concurrently as well.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		p, err := appEngine.ProviderForURL(url)
		if err != nil {
			return err
		}

		ctx := cmd.Context()

		if infoFull {
			aggregate, err := p.GetAggregate(ctx, url)
			if err != nil {
				if errors.IsAbsent(err) {
					printWarning("Not found.")
					return nil
				}
				return err
			}
			printDetailHeader(aggregate.Title, aggregate.Author, aggregate.Language, aggregate.Genres)
			printField("Chapters", fmt.Sprint(len(aggregate.Chapters)))
			for i, chapter := range aggregate.Chapters {
				fmt.Printf("  %3d. %s (%d images)\n", i+1, chapter.URL, len(chapter.Gallery))
			}
			return nil
		}

		detail, err := p.GetManga(ctx, url)
		if err != nil {
			if errors.IsAbsent(err) {
				printWarning("Not found.")
				return nil
			}
			return err
		}
		printDetailHeader(detail.Title, detail.Author, detail.Language, detail.Genres)
		printField("Chapters", fmt.Sprint(len(detail.Chapters)))
		printField("Poster", detail.Poster)
		return nil
	},
}

func printDetailHeader(title, author, language string, genres []string) {
	printHeader(title)
	printField("Author", author)
	printField("Language", language)
	printField("Genres", strings.Join(genres, ", "))
}

func init() {
	infoCmd.Flags().BoolVar(&infoFull, "full", false, "resolve all chapter galleries")
	rootCmd.AddCommand(infoCmd)
}
