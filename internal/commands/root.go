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

// Package commands is the cobra surface of Kumo. It only consumes the core's
// records and session API; fetch, parse and cache logic never leak up here.
package commands

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"Kumo/pkg/core"
	"Kumo/pkg/engine"
	"Kumo/pkg/engine/logger"
	"Kumo/pkg/provider/registry"
)

var (
	appEngine  *engine.Engine
	appVersion = "dev"

	cfgFile     string
	debugMode   bool
	concurrency int
)

var rootCmd = &cobra.Command{
	Use:   "kumo",
	Short: "Kumo aggregates manga catalogs and chapters from content sites.",
	Long: "Kumo aggregates manga catalogs and chapters from content sites through\n" +
		"per-site spiders: search by title or genres, inspect detail pages and\n" +
		"resolve full chapter galleries.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugMode {
			logger.SetLevel("debug")
		}
		if appEngine != nil {
			return nil
		}
		appEngine = engine.NewWithConfig(loadSiteConfig())
		return registry.LoadAll(appEngine)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute(version string) {
	appVersion = version
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default kumo.yaml in . or ~/.config/kumo)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().IntVar(&concurrency, "concurrency", 0, "override max concurrent requests per site")
}

// loadSiteConfig reads the optional config file and builds the site defaults
// handed to every provider. Configuration stays a plain value threaded
// through constructors; nothing global.
func loadSiteConfig() core.SiteConfig {
	defaults := core.DefaultSiteConfig()

	v := viper.New()
	v.SetConfigName("kumo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "kumo"))
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	}

	v.SetDefault("network.max_concurrent", defaults.MaxConcurrent)
	v.SetDefault("network.max_retries", defaults.MaxRetries)
	v.SetDefault("network.backoff", defaults.BackoffBase.String())
	v.SetDefault("network.jitter", defaults.UseJitter)
	v.SetDefault("network.timeout", defaults.Timeout.String())
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err == nil {
		logger.SetLevel(v.GetString("log.level"))
	}
	if debugMode {
		logger.SetLevel("debug")
	}

	cfg := core.SiteConfig{
		MaxConcurrent: v.GetInt("network.max_concurrent"),
		MaxRetries:    v.GetInt("network.max_retries"),
		BackoffBase:   parseDuration(v.GetString("network.backoff"), defaults.BackoffBase),
		UseJitter:     v.GetBool("network.jitter"),
		Timeout:       parseDuration(v.GetString("network.timeout"), defaults.Timeout),
	}
	if concurrency > 0 {
		cfg.MaxConcurrent = concurrency
	}

	var proxies []core.Proxy
	if err := v.UnmarshalKey("proxies", &proxies); err == nil {
		cfg.Proxies = proxies
	}
	return cfg
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
