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

	"github.com/spf13/cobra"

	"Kumo/pkg/errors"
)

var chapterCmd = &cobra.Command{
	Use:   "chapter [url]",
	Short: "Resolve one chapter's image gallery",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		url := args[0]
		p, err := appEngine.ProviderForURL(url)
		if err != nil {
			return err
		}

		chapter, err := p.GetChapter(cmd.Context(), url)
		if err != nil {
			if errors.IsAbsent(err) {
				printWarning("Not found.")
				return nil
			}
			return err
		}

		printHeader(chapter.URL)
		for i, image := range chapter.Gallery {
			fmt.Printf("  %3d. %s\n", i+1, image)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chapterCmd)
}
