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
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"Kumo/pkg/core"
	"Kumo/pkg/provider"
)

var (
	headerStyle  = color.New(color.FgCyan, color.Bold)
	labelStyle   = color.New(color.FgWhite, color.Bold)
	warningStyle = color.New(color.FgYellow)
	errorStyle   = color.New(color.FgRed, color.Bold)
)

func printHeader(text string) {
	_, _ = headerStyle.Println(text)
}

func printWarning(text string) {
	_, _ = warningStyle.Println(text)
}

func printError(err error) {
	_, _ = errorStyle.Fprintf(os.Stderr, "Error: %v\n", err)
}

func printField(label, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Printf("%s %s\n", labelStyle.Sprintf("%s:", label), value)
}

func printTable(headers []string, rows [][]string) {
	table := tablewriter.NewTable(os.Stdout)
	table.Header(headers)
	if err := table.Bulk(rows); err != nil {
		return
	}
	_ = table.Render()
}

func printMangaTable(providerID string, page int, items []core.Manga) {
	if len(items) == 0 {
		printWarning("No results.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, m := range items {
		rows = append(rows, []string{providerID, fmt.Sprint(page), m.Title, m.URL})
	}
	printTable([]string{"Provider", "Page", "Title", "URL"}, rows)
}

func printProviderTable(providers []provider.Provider) {
	rows := make([][]string, 0, len(providers))
	for _, p := range providers {
		rows = append(rows, []string{p.ID(), p.Name(), p.SiteURL(), p.Description()})
	}
	printTable([]string{"ID", "Name", "Site", "Description"}, rows)
}
