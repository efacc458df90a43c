package stats

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/rift-edge/internal/config"
	"github.com/yourusername/rift-edge/internal/models"
)

// Loader produces team-stats snapshots from a local CSV directory or a
// remote download, per configuration.
type Loader struct {
	cfg        config.StatsConfig
	downloader *Downloader
	logger     *logrus.Logger
}

// NewLoader creates a stats loader
func NewLoader(cfg config.StatsConfig, downloader *Downloader, logger *logrus.Logger) *Loader {
	return &Loader{cfg: cfg, downloader: downloader, logger: logger}
}

// Load produces a fresh snapshot from the configured source
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	if l.cfg.Mode == "download" {
		if err := l.downloader.Download(ctx); err != nil {
			return nil, fmt.Errorf("stats download failed: %w", err)
		}
	}
	return l.loadLocal()
}

// loadLocal parses the newest CSV in the local directory
func (l *Loader) loadLocal() (*Snapshot, error) {
	path, err := newestCSV(l.cfg.LocalDir)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stats file: %w", err)
	}
	defer f.Close()

	snapshot, err := ParseCSV(f, filepath.Base(path))
	if err != nil {
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"source":       snapshot.Source,
		"teams":        snapshot.Len(),
		"skipped_rows": snapshot.SkippedRows(),
	}).Info("Team stats snapshot loaded")

	return snapshot, nil
}

// newestCSV returns the lexicographically last CSV file in dir.
// Oracle's Elixir exports embed the date in the filename, so this is the latest.
func newestCSV(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read stats directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".csv" {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return "", fmt.Errorf("%w: no CSV files in %s", models.ErrMalformedStats, dir)
	}

	sort.Strings(files)
	return filepath.Join(dir, files[len(files)-1]), nil
}

// teamAccumulator accumulates per-game rows for one team
type teamAccumulator struct {
	games       int
	kills       float64
	deaths      float64
	durationMin float64
}

// ParseCSV aggregates Oracle's Elixir-style per-game rows into per-team stats.
// Only rows at team granularity (position == "team") are used. Malformed rows
// are skipped and counted; a file with no usable rows is an error.
func ParseCSV(r io.Reader, source string) (*Snapshot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read header: %v", models.ErrMalformedStats, err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"position", "teamname", "gamelength", "teamkills", "teamdeaths"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", models.ErrMalformedStats, required)
		}
	}

	teams := make(map[string]*teamAccumulator)
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}

		if field(record, col, "position") != "team" {
			continue
		}

		name := NormalizeTeamName(field(record, col, "teamname"))
		if name == "" {
			skipped++
			continue
		}

		lengthSec, err1 := strconv.ParseFloat(field(record, col, "gamelength"), 64)
		kills, err2 := strconv.ParseFloat(field(record, col, "teamkills"), 64)
		deaths, err3 := strconv.ParseFloat(field(record, col, "teamdeaths"), 64)
		if err1 != nil || err2 != nil || err3 != nil || lengthSec <= 0 || kills < 0 || deaths < 0 {
			skipped++
			continue
		}

		acc, ok := teams[name]
		if !ok {
			acc = &teamAccumulator{}
			teams[name] = acc
		}
		acc.games++
		acc.kills += kills
		acc.deaths += deaths
		acc.durationMin += lengthSec / 60.0
	}

	if len(teams) == 0 {
		return nil, fmt.Errorf("%w: no usable team rows in %s", models.ErrMalformedStats, source)
	}

	aggregated := make(map[string]models.TeamStats, len(teams))
	for name, acc := range teams {
		n := float64(acc.games)
		aggregated[name] = models.TeamStats{
			TeamID:             name,
			GamesPlayed:        acc.games,
			AvgKillsPerGame:    acc.kills / n,
			AvgKillsConceded:   acc.deaths / n,
			AvgGameDurationMin: acc.durationMin / n,
		}
	}

	return NewSnapshot(source, time.Now().UTC(), aggregated, skipped), nil
}

func field(record []string, col map[string]int, name string) string {
	i := col[name]
	if i >= len(record) {
		return ""
	}
	return record[i]
}
