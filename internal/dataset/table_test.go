package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

func TestDefaultLookup(t *testing.T) {
	tbl := Default()

	tests := []struct {
		starter float64
		temp    float64
		rise    domain.RiseTarget
		want    float64
	}{
		{15, 70, domain.Rise75, 6.5},
		{5, 66, domain.Rise75, 13.5},
		{20, 74, domain.Rise100, 5.25},
		{10, 72, domain.Rise100, 8.25},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%g/%g/%s", tt.starter, tt.temp, tt.rise), func(t *testing.T) {
			got, err := tbl.Lookup(tt.starter, tt.temp, tt.rise)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookupRejectsOffGrid(t *testing.T) {
	tbl := Default()

	tests := []struct {
		name    string
		starter float64
		temp    float64
		rise    domain.RiseTarget
	}{
		{"starter", 12, 70, domain.Rise75},
		{"temperature", 15, 69, domain.Rise75},
		{"rise", 15, 70, domain.RiseTarget(90)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tbl.Lookup(tt.starter, tt.temp, tt.rise)
			assert.ErrorIs(t, err, domain.ErrNotCanonical)
		})
	}
}

func TestDefaultTableOrdering(t *testing.T) {
	tbl := Default()

	for _, rise := range domain.RiseTargets {
		for _, s := range domain.StarterPoints {
			for i := 1; i < len(domain.TemperaturePoints); i++ {
				cooler, err := tbl.Lookup(s, domain.TemperaturePoints[i-1], rise)
				require.NoError(t, err)
				warmer, err := tbl.Lookup(s, domain.TemperaturePoints[i], rise)
				require.NoError(t, err)
				assert.Greater(t, cooler, warmer, "warmer dough must ferment faster (%g%%, %s)", s, rise)
			}
		}
	}

	for _, temp := range domain.TemperaturePoints {
		for i := 1; i < len(domain.StarterPoints); i++ {
			less, err := tbl.Lookup(domain.StarterPoints[i-1], temp, domain.Rise75)
			require.NoError(t, err)
			more, err := tbl.Lookup(domain.StarterPoints[i], temp, domain.Rise75)
			require.NoError(t, err)
			assert.Greater(t, less, more, "more starter must ferment faster at %g°F", temp)
		}
	}
}

func TestPoints(t *testing.T) {
	pts := Default().Points()
	require.Len(t, pts, 40)

	assert.Equal(t, domain.AnchorPoint{Starter: 5, Temperature: 66, Rise: domain.Rise75, Hours: 13.5}, pts[0])
	assert.Equal(t, domain.Rise100, pts[39].Rise)

	for _, p := range pts {
		assert.Positive(t, p.Hours)
	}
}

func TestParseErrors(t *testing.T) {
	valid := string(fermentationYAML)

	tests := []struct {
		name string
		doc  string
	}{
		{"malformed", "points: [oops"},
		{"missing point", strings.Replace(valid, "  - {starter: 5, temp: 66, rise: 75, hours: 13.5}\n", "", 1)},
		{"duplicate point", strings.Replace(valid,
			"{starter: 5, temp: 68, rise: 75, hours: 12.0}",
			"{starter: 5, temp: 66, rise: 75, hours: 12.0}", 1)},
		{"off-axis starter", strings.Replace(valid, "{starter: 5, temp: 66", "{starter: 7, temp: 66", 1)},
		{"off-axis rise", strings.Replace(valid, "temp: 66, rise: 75, hours: 13.5", "temp: 66, rise: 80, hours: 13.5", 1)},
		{"non-positive hours", strings.Replace(valid, "hours: 13.5", "hours: 0", 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.ErrorIs(t, err, domain.ErrInvalidDataset)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	custom := strings.Replace(string(fermentationYAML), "hours: 6.5}", "hours: 7.0}", 1)
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	tbl, err := LoadFile(path)
	require.NoError(t, err)

	got, err := tbl.Lookup(15, 70, domain.Rise75)
	require.NoError(t, err)
	assert.Equal(t, 7.0, got)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
