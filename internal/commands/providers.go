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
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List registered site providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		printHeader("Available providers")
		printProviderTable(appEngine.AllProviders())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
