package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"-q", "--log-file", "stderr"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestEstimateCommand(t *testing.T) {
	out, err := run(t, "estimate", "--temp", "70", "--starter", "15")
	require.NoError(t, err)
	assert.Contains(t, out, "70°F, 15% starter, 75% rise")
	assert.Contains(t, out, "6 hours 30 minutes")
	assert.Contains(t, out, "Range: 6 hours to 7 hours")
	assert.NotContains(t, out, "Done around")

	out, err = run(t, "estimate", "-u", "C", "--temp", "14", "--starter", "15", "--start", "now")
	require.NoError(t, err)
	assert.Contains(t, out, "14°C")
	assert.Contains(t, out, "Done around")
	assert.Contains(t, out, "Temperature below tested range")
}

func TestEstimateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing temp", []string{"estimate", "--starter", "15"}, "temp"},
		{"nan", []string{"estimate", "--temp", "NaN", "--starter", "15"}, "--temp must be a finite number"},
		{"inf salt", []string{"estimate", "--temp", "70", "--starter", "15", "--salt", "+Inf"}, "--salt must be a finite number"},
		{"negative starter", []string{"estimate", "--temp", "70", "--starter", "-1"}, "--starter must not be negative"},
		{"bad unit", []string{"estimate", "-u", "K", "--temp", "70", "--starter", "15"}, "K"},
		{"bad start", []string{"estimate", "--temp", "70", "--starter", "15", "--start", "noonish"}, "time of day"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConvertCommand(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"convert", "70", "--to", "C"}, "70°F = 21°C\n"},
		{[]string{"convert", "21", "--to", "F"}, "21°C = 70°F\n"},
		{[]string{"-u", "C", "convert", "75"}, "75°F = 24°C\n"},
	}
	for _, tt := range tests {
		out, err := run(t, tt.args...)
		require.NoError(t, err)
		assert.Equal(t, tt.want, out)
	}

	_, err := run(t, "convert", "warm")
	assert.Error(t, err)
	_, err = run(t, "convert")
	assert.Error(t, err)
}

func TestTableCommand(t *testing.T) {
	out, err := run(t, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "75% rise")
	assert.Contains(t, out, "100% rise")

	out, err = run(t, "table", "--rise", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "100% rise")
	assert.NotContains(t, out, "75% rise")

	_, err = run(t, "table", "--rise", "90")
	assert.Error(t, err)
}

func TestDatasetOverride(t *testing.T) {
	_, err := run(t, "--dataset", filepath.Join(t.TempDir(), "missing.yaml"), "table")
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("points: []\n"), 0o644))
	_, err = run(t, "--dataset", bad, "table")
	assert.ErrorIs(t, err, domain.ErrInvalidDataset)
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bulkferm.log")

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"-v", "--log-file", path, "estimate", "--temp", "70", "--starter", "15"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"level":"DEBUG"`)
	assert.Contains(t, out.String(), "level=DEBUG")
}

func TestParseStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"now", now},
		{" NOW ", now},
		{"07:15", time.Date(2026, 3, 1, 7, 15, 0, 0, time.UTC)},
		{"9:00 AM", now},
		{"23:30", time.Date(2026, 2, 28, 23, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseStart(tt.in, now)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseStart("25:00", now)
	assert.ErrorIs(t, err, domain.ErrInvalidTimeOfDay)
}

func TestFormulaFlag(t *testing.T) {
	plain, err := run(t, "estimate", "--temp", "70", "--starter", "15")
	require.NoError(t, err)

	// Light rye: 20% rye takes 30% off the time.
	out, err := run(t, "estimate", "--temp", "70", "--starter", "15", "--formula", "rye")
	require.NoError(t, err)
	assert.NotEqual(t, plain, out)
	assert.Contains(t, out, "4 hours 33 minutes")

	// An explicit flag wins over the formula.
	out, err = run(t, "estimate", "--temp", "70", "--starter", "15", "--formula", "rye", "--rye", "0")
	require.NoError(t, err)
	assert.Equal(t, plain, out)

	_, err = run(t, "estimate", "--temp", "70", "--starter", "15", "--formula", "focaccia")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFormulasCommand(t *testing.T) {
	out, err := run(t, "formulas")
	require.NoError(t, err)
	assert.Contains(t, out, "- Country loaf [country]")
	assert.Contains(t, out, "whole wheat 10%, rye 0%, protein 12.7%, salt 2%")

	out, err = run(t, "formulas", "pizza")
	require.NoError(t, err)
	assert.Contains(t, out, "Pizza dough")
	assert.NotContains(t, out, "Country loaf")

	out, err = run(t, "formulas", "spelt")
	require.NoError(t, err)
	assert.Equal(t, "No formulas found.\n", out)
}
