package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/shapstream/explain"
	"github.com/katalvlaran/shapstream/sink"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()

	return runWith(t, &cli{logger: zap.NewNop()}, args...)
}

func runWith(t *testing.T, c *cli, args ...string) error {
	t.Helper()
	cmd := c.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(new(strings.Builder))
	cmd.SetErr(new(strings.Builder))

	return cmd.ExecuteContext(context.Background())
}

func fixture(t *testing.T) (dir, cfg string) {
	t.Helper()

	return fixtureWith(t, "id,a,b,c\nr1,10,20,30\nr2,1,2,3\n", "")
}

func fixtureWith(t *testing.T, rowsCSV, extra string) (dir, cfg string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "rows.csv", rowsCSV)
	writeFile(t, dir, "bg.csv", "id,a,b,c\nb0,0,0,0\n")
	cfg = writeFile(t, dir, "run.yaml", `
seed: 42
iterations: 5
chunk_size: 1
rows: `+filepath.Join(dir, "rows.csv")+`
background: `+filepath.Join(dir, "bg.csv")+`
model:
  weights: [[1, 1, 1]]
`+extra)

	return dir, cfg
}

func TestExplain_CSV(t *testing.T) {
	dir, cfg := fixture(t)
	out := filepath.Join(dir, "out.csv")

	require.NoError(t, runCLI(t, "explain", "--config", cfg, "--output", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Equal(t, []string{
		"row_id,feature,target,contribution",
		"r1,a,0,10",
		"r1,b,0,20",
		"r1,c,0,30",
		"r2,a,0,1",
		"r2,b,0,2",
		"r2,c,0,3",
		sink.BaselineRowID + ",,0,0",
	}, lines)
}

func TestExplain_SQLiteWithFlagOverrides(t *testing.T) {
	dir, cfg := fixture(t)
	out := filepath.Join(dir, "out.db")

	require.NoError(t, runCLI(t, "explain", "-c", cfg, "-o", out, "--iterations", "2", "--chunk-size", "10"))

	db, err := sink.OpenSQLite(out, nil)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Contributions(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.InDelta(t, 10, got[0].Value, 1e-12)
	assert.InDelta(t, 30, got[2].Value, 1e-12)
}

func TestExplain_Errors(t *testing.T) {
	dir, cfg := fixture(t)

	err := runCLI(t, "explain", "-c", cfg, "--iterations", "0")
	assert.Error(t, err, "validation rejects zero iterations")

	writeFile(t, dir, "other.csv", "id,x,y,z\nb0,0,0,0\n")
	err = runCLI(t, "explain", "-c", cfg, "--background", filepath.Join(dir, "other.csv"), "-o", filepath.Join(dir, "o.csv"))
	assert.ErrorIs(t, err, explain.ErrConfiguration)

	err = runCLI(t, "explain", "--rows", "missing.csv")
	assert.Error(t, err)
}

func TestExplain_VerboseFromConfigOrFlag(t *testing.T) {
	for name, tc := range map[string]struct {
		extra string
		flags []string
		debug bool
	}{
		"default": {},
		"config":  {extra: "logging:\n  verbose: true\n", debug: true},
		"flag":    {flags: []string{"--verbose"}, debug: true},
	} {
		t.Run(name, func(t *testing.T) {
			dir, cfg := fixtureWith(t, "id,a,b,c\nr1,1,2,3\n", tc.extra)
			c := &cli{logger: zap.NewNop()}
			args := append([]string{"explain", "-c", cfg, "-o", filepath.Join(dir, "out.csv")}, tc.flags...)
			require.NoError(t, runWith(t, c, args...))
			assert.Equal(t, tc.debug, c.logger.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, c.logger.Core().Enabled(zapcore.InfoLevel))
		})
	}
}

func TestExplain_FailedRunLeavesNoOutput(t *testing.T) {
	// the second row fails to parse after the first one was already written
	dir, cfg := fixtureWith(t, "id,a,b,c\nr1,10,20,30\nr2,oops,2,3\n", "")

	for _, name := range []string{"out.csv", "out.db", "out"} {
		out := filepath.Join(dir, name)
		err := runCLI(t, "explain", "-c", cfg, "-o", out)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "oops")
		assert.NoFileExists(t, out)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"rows.csv", "bg.csv", "run.yaml"}, names, "temp files are cleaned up")
}
