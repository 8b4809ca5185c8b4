package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/j-veylop/flight-demand-tui/internal/dataset"
	"github.com/j-veylop/flight-demand-tui/internal/version"
)

func isolateConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("DATA_DIR", dir)
	t.Setenv("AIRPORTS_PATH", "")
	t.Setenv("DEFAULT_CITY", "Sydney")
	t.Setenv("DATE_RANGE_DAYS", "30")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, version.Info()+"\n", out)
}

func TestGenerateToStdout(t *testing.T) {
	isolateConfig(t)

	out, err := execute(t, "generate", "--city", "MEL", "--start", "2024-12-01", "--days", "3", "--seed", "7")
	require.NoError(t, err)

	table, err := dataset.ReadCSV(strings.NewReader(out))
	require.NoError(t, err)
	require.False(t, table.IsEmpty())
	for i := 0; i < table.Len(); i++ {
		assert.Equal(t, "MEL", table.Record(i).Origin)
	}

	again, err := execute(t, "generate", "--city", "MEL", "--start", "2024-12-01", "--days", "3", "--seed", "7")
	require.NoError(t, err)
	assert.Equal(t, out, again, "same seed must give the same flights")
}

func TestGenerateToFile(t *testing.T) {
	dir := isolateConfig(t)
	path := filepath.Join(dir, "mock.csv")

	out, err := execute(t, "generate", "--start", "2024-12-01", "--days", "2", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flight_date")
	assert.Contains(t, string(data), "SYD")
}

func TestGenerateUnknownCity(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "generate", "--city", "Atlantis")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Atlantis")
}

func TestGenerateBadStart(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "generate", "--start", "not a date")
	assert.Error(t, err)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	isolateConfig(t)

	_, err := execute(t, "export", "parquet")
	assert.Error(t, err)
}

func TestExportPostgresNeedsDSN(t *testing.T) {
	isolateConfig(t)
	t.Setenv("POSTGRES_DSN", "")

	_, err := execute(t, "export", "postgres")
	assert.ErrorIs(t, err, errNoPostgres)
}

func TestOrDefault(t *testing.T) {
	assert.Equal(t, "a", orDefault("a", "b"))
	assert.Equal(t, "b", orDefault("", "b"))
}
