// Package main provides the statsync CLI for managing team-stats CSVs.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/rift-edge/internal/config"
	"github.com/yourusername/rift-edge/internal/fairodds"
	applogger "github.com/yourusername/rift-edge/internal/logger"
	"github.com/yourusername/rift-edge/internal/provider"
	"github.com/yourusername/rift-edge/internal/stats"
)

var (
	configFile string
	topN       int
	logger     *logrus.Logger
	cfg        *config.Config
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	inspectCmd.Flags().IntVarP(&topN, "top", "n", 10, "Number of teams to show, ranked by games played")
}

var rootCmd = &cobra.Command{
	Use:   "statsync",
	Short: "Manage the historical team-stats CSVs used by the engine",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadWithDefaults(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger = applogger.NewLogger(cfg.App.LogLevel, cfg.IsProduction())
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Fetch the latest stats CSV into the local directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Stats.DownloadURL == "" {
			return fmt.Errorf("stats.download_url is not configured")
		}

		httpClient := provider.NewRateLimitedHTTPClient(provider.DefaultHTTPClientConfig(), logger)
		defer httpClient.Close()

		downloader := stats.NewDownloader(
			cfg.Stats.DownloadURL,
			cfg.Stats.LocalDir,
			time.Duration(cfg.Stats.DownloadTimeoutSecs)*time.Second,
			httpClient,
			logger,
		)
		if err := downloader.Download(context.Background()); err != nil {
			return err
		}

		fmt.Printf("Downloaded latest stats CSV into %s\n", cfg.Stats.LocalDir)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse the newest local CSV and report whether the engine could use it",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadLocalSnapshot()
		if err != nil {
			return err
		}

		fmt.Printf("✓ %s parsed: %d teams, %d malformed rows skipped\n",
			snapshot.Source, snapshot.Len(), snapshot.SkippedRows())
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show per-team aggregates and modeled scoring rates",
	RunE: func(cmd *cobra.Command, args []string) error {
		snapshot, err := loadLocalSnapshot()
		if err != nil {
			return err
		}

		teams := snapshot.Teams()
		sort.Slice(teams, func(i, j int) bool {
			return teams[i].GamesPlayed > teams[j].GamesPlayed
		})
		if topN > 0 && len(teams) > topN {
			teams = teams[:topN]
		}

		fmt.Printf("%-28s %6s %8s %10s %10s %8s\n",
			"TEAM", "GAMES", "KILLS/G", "CONCEDED/G", "AVG MIN", "K/MIN")
		for _, team := range teams {
			rate, err := fairodds.Strength(team, cfg.Model.MinGamesPlayed)
			rateStr := "-"
			if err == nil {
				rateStr = fmt.Sprintf("%.3f", float64(rate))
			}
			fmt.Printf("%-28s %6d %8.1f %10.1f %10.1f %8s\n",
				team.TeamID, team.GamesPlayed, team.AvgKillsPerGame,
				team.AvgKillsConceded, team.AvgGameDurationMin, rateStr)
		}
		return nil
	},
}

func loadLocalSnapshot() (*stats.Snapshot, error) {
	localCfg := cfg.Stats
	localCfg.Mode = "local"
	loader := stats.NewLoader(localCfg, nil, logger)
	return loader.Load(context.Background())
}

func main() {
	rootCmd.AddCommand(downloadCmd, validateCmd, inspectCmd)

	if err := rootCmd.Execute(); err != nil {
		log.SetOutput(os.Stderr)
		log.Fatalf("Error: %v", err)
	}
}
