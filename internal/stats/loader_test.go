package stats

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rift-edge/internal/config"
	"github.com/yourusername/rift-edge/internal/models"
)

const sampleHeader = "gameid,position,teamname,gamelength,teamkills,teamdeaths\n"

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func TestParseCSVAggregates(t *testing.T) {
	csv := sampleHeader +
		"g1,team,T1,1800,20,5\n" +
		"g1,team,Gen.G,1800,5,20\n" +
		"g1,top,Zeus,1800,3,1\n" + // player row, ignored
		"g2,team,T1,2400,10,12\n"

	snapshot, err := ParseCSV(strings.NewReader(csv), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.Len())
	assert.Equal(t, 0, snapshot.SkippedRows())

	t1, ok := snapshot.Team("T1")
	require.True(t, ok)
	assert.Equal(t, 2, t1.GamesPlayed)
	assert.InDelta(t, 15.0, t1.AvgKillsPerGame, 1e-9)
	assert.InDelta(t, 8.5, t1.AvgKillsConceded, 1e-9)
	assert.InDelta(t, 35.0, t1.AvgGameDurationMin, 1e-9) // (30 + 40) / 2

	geng, ok := snapshot.Team("gen.g")
	require.True(t, ok, "lookups are case-insensitive")
	assert.Equal(t, 1, geng.GamesPlayed)
}

func TestParseCSVSkipsMalformedRows(t *testing.T) {
	csv := sampleHeader +
		"g1,team,T1,1800,20,5\n" +
		"g2,team,,1800,10,10\n" + // empty team name
		"g3,team,Gen.G,not-a-number,10,10\n" + // bad game length
		"g4,team,Gen.G,-60,10,10\n" + // non-positive length
		"g5,team,Fnatic,1800,-2,4\n" // negative kills

	snapshot, err := ParseCSV(strings.NewReader(csv), "sample.csv")
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.Len())
	assert.Equal(t, 4, snapshot.SkippedRows())

	_, ok := snapshot.Team("Gen.G")
	assert.False(t, ok, "teams with only malformed rows never enter the snapshot")
}

func TestParseCSVMissingColumn(t *testing.T) {
	csv := "gameid,position,teamname,gamelength\n" +
		"g1,team,T1,1800\n"

	_, err := ParseCSV(strings.NewReader(csv), "sample.csv")
	assert.ErrorIs(t, err, models.ErrMalformedStats)
}

func TestParseCSVNoUsableRows(t *testing.T) {
	csv := sampleHeader +
		"g1,top,Zeus,1800,3,1\n" +
		"g1,jng,Oner,1800,4,2\n"

	_, err := ParseCSV(strings.NewReader(csv), "sample.csv")
	assert.ErrorIs(t, err, models.ErrMalformedStats)
}

func TestLoaderPicksNewestCSV(t *testing.T) {
	dir := t.TempDir()

	older := sampleHeader + "g1,team,Old Roster,1800,12,10\n"
	newer := sampleHeader + "g1,team,New Roster,1800,14,9\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-08-01.csv"), []byte(older), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2026-08-20.csv"), []byte(newer), 0o644))

	loader := NewLoader(config.StatsConfig{Mode: "local", LocalDir: dir}, nil, quietLogger())
	snapshot, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2026-08-20.csv", snapshot.Source)
	_, ok := snapshot.Team("New Roster")
	assert.True(t, ok)
	_, ok = snapshot.Team("Old Roster")
	assert.False(t, ok)
}

func TestLoaderEmptyDirectory(t *testing.T) {
	loader := NewLoader(config.StatsConfig{Mode: "local", LocalDir: t.TempDir()}, nil, quietLogger())
	_, err := loader.Load(context.Background())
	assert.ErrorIs(t, err, models.ErrMalformedStats)
}

func TestNormalizeTeamName(t *testing.T) {
	assert.Equal(t, "t1", NormalizeTeamName("T1"))
	assert.Equal(t, "g2 esports", NormalizeTeamName("  G2   Esports "))
	assert.Equal(t, "gen.g", NormalizeTeamName("Gen.G"))
	assert.Equal(t, "", NormalizeTeamName("   "))
}
