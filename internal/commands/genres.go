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

var genresProvider string

var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "List the genre tags a provider supports",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := appEngine.Provider(genresProvider)
		if err != nil {
			return err
		}

		genres, err := p.Genres(cmd.Context())
		if err != nil {
			if errors.IsAbsent(err) {
				printWarning("Genre list unavailable.")
				return nil
			}
			return err
		}

		printHeader(fmt.Sprintf("%s genres", p.Name()))
		for _, genre := range genres {
			fmt.Println("  " + genre)
		}
		return nil
	},
}

func init() {
	genresCmd.Flags().StringVarP(&genresProvider, "provider", "p", "", "provider ID")
	_ = genresCmd.MarkFlagRequired("provider")
	rootCmd.AddCommand(genresCmd)
}
