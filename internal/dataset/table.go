// Package dataset provides the measured bulk fermentation table.
//
// The default table is parsed from an embedded YAML document when the
// package is initialised and is never mutated afterwards. Alternate
// tables can be parsed from any document with the same layout.
package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

//go:embed fermentation.yaml
var fermentationYAML []byte

// Compile-time interface check.
var _ domain.Dataset = (*Table)(nil)

const (
	numStarter = len(domain.StarterPoints)
	numTemp    = len(domain.TemperaturePoints)
	numRise    = len(domain.RiseTargets)
)

// Table holds hours indexed by [starter][temperature][rise] axis position.
type Table struct {
	hours [numStarter][numTemp][numRise]float64
}

var defaultTable = mustParse(fermentationYAML)

// Default returns the built-in table. The returned value is shared and
// read-only.
func Default() *Table { return defaultTable }

type document struct {
	Points []point `yaml:"points"`
}

type point struct {
	Starter float64 `yaml:"starter"`
	Temp    float64 `yaml:"temp"`
	Rise    int     `yaml:"rise"`
	Hours   float64 `yaml:"hours"`
}

// Parse builds a table from a YAML document. Every canonical combination
// must appear exactly once with a positive duration.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: decoding yaml: %v", domain.ErrInvalidDataset, err)
	}

	t := &Table{}
	var seen [numStarter][numTemp][numRise]bool

	for i, p := range doc.Points {
		si, ok := starterIndex(p.Starter)
		if !ok {
			return nil, fmt.Errorf("%w: point %d: starter %g%% is not on the axis", domain.ErrInvalidDataset, i, p.Starter)
		}
		ti, ok := tempIndex(p.Temp)
		if !ok {
			return nil, fmt.Errorf("%w: point %d: temperature %g°F is not on the axis", domain.ErrInvalidDataset, i, p.Temp)
		}
		ri, ok := riseIndex(domain.RiseTarget(p.Rise))
		if !ok {
			return nil, fmt.Errorf("%w: point %d: rise %d%% is not measured", domain.ErrInvalidDataset, i, p.Rise)
		}
		if p.Hours <= 0 {
			return nil, fmt.Errorf("%w: point %d: hours must be positive, got %g", domain.ErrInvalidDataset, i, p.Hours)
		}
		if seen[si][ti][ri] {
			return nil, fmt.Errorf("%w: point %d: duplicate %g%%/%g°F/%d%%", domain.ErrInvalidDataset, i, p.Starter, p.Temp, p.Rise)
		}
		seen[si][ti][ri] = true
		t.hours[si][ti][ri] = p.Hours
	}

	want := numStarter * numTemp * numRise
	if len(doc.Points) != want {
		return nil, fmt.Errorf("%w: expected %d points, got %d", domain.ErrInvalidDataset, want, len(doc.Points))
	}
	return t, nil
}

// LoadFile parses a table from a YAML file on disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return t, nil
}

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic("dataset: embedded table: " + err.Error())
	}
	return t
}

// Lookup returns the measured hours for a canonical combination.
func (t *Table) Lookup(starter, tempF float64, rise domain.RiseTarget) (float64, error) {
	si, ok := starterIndex(starter)
	if !ok {
		return 0, fmt.Errorf("starter %g%%: %w", starter, domain.ErrNotCanonical)
	}
	ti, ok := tempIndex(tempF)
	if !ok {
		return 0, fmt.Errorf("temperature %g°F: %w", tempF, domain.ErrNotCanonical)
	}
	ri, ok := riseIndex(rise)
	if !ok {
		return 0, fmt.Errorf("rise %s: %w", rise, domain.ErrNotCanonical)
	}
	return t.hours[si][ti][ri], nil
}

// Points returns every anchor point ordered by rise, starter, then
// temperature.
func (t *Table) Points() []domain.AnchorPoint {
	out := make([]domain.AnchorPoint, 0, numStarter*numTemp*numRise)
	for ri, rise := range domain.RiseTargets {
		for si, s := range domain.StarterPoints {
			for ti, temp := range domain.TemperaturePoints {
				out = append(out, domain.AnchorPoint{
					Starter:     s,
					Temperature: temp,
					Rise:        rise,
					Hours:       t.hours[si][ti][ri],
				})
			}
		}
	}
	return out
}

func starterIndex(v float64) (int, bool) { return axisIndex(domain.StarterPoints[:], v) }

func tempIndex(v float64) (int, bool) { return axisIndex(domain.TemperaturePoints[:], v) }

func axisIndex(axis []float64, v float64) (int, bool) {
	i := sort.SearchFloat64s(axis, v)
	if i < len(axis) && axis[i] == v {
		return i, true
	}
	return 0, false
}

func riseIndex(r domain.RiseTarget) (int, bool) {
	for i, rt := range domain.RiseTargets {
		if rt == r {
			return i, true
		}
	}
	return 0, false
}
