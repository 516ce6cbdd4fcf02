// Package domain defines the core types and interfaces for the bulk
// fermentation estimator. All other packages depend on domain; domain
// depends on nothing.
package domain

// Axis values of the measured dataset. Both axes are sorted ascending.
var (
	StarterPoints     = [...]float64{5, 10, 15, 20}
	TemperaturePoints = [...]float64{66, 68, 70, 72, 74}
)

// Tested range edges, derived from the axes.
const (
	MinTestedTempF   = 66.0
	MaxTestedTempF   = 74.0
	MinTestedStarter = 5.0
	MaxTestedStarter = 20.0
)

// Baseline composition of the dough the dataset was measured with.
const (
	BaselineWholeWheat = 10.0 // 90% bread flour, 10% whole wheat
	BaselineRye        = 0.0
	BaselineProtein    = 12.7 // bread flour average
	BaselineSalt       = 2.0
)

// RiseTarget is the percentage volume increase used as the completion
// criterion. Only two columns were measured.
type RiseTarget int

const (
	Rise75  RiseTarget = 75
	Rise100 RiseTarget = 100
)

// RiseTargets lists the measured rise columns in table order.
var RiseTargets = [...]RiseTarget{Rise75, Rise100}

// String returns the rise as a percentage, e.g. "75%".
func (r RiseTarget) String() string {
	switch r {
	case Rise75:
		return "75%"
	case Rise100:
		return "100%"
	default:
		return "unknown"
	}
}

// SnapRise maps an arbitrary requested rise to a measured column. 100
// selects the 100% data; every other value falls back to 75%.
func SnapRise(target float64) RiseTarget {
	if target == float64(Rise100) {
		return Rise100
	}
	return Rise75
}

// AnchorPoint is a single measured observation.
type AnchorPoint struct {
	Starter     float64
	Temperature float64 // °F
	Rise        RiseTarget
	Hours       float64
}

// Cell holds the bracketing axis values used for one interpolation.
// Each pair is adjacent on its axis; lower == upper is allowed.
type Cell struct {
	LowerStarter float64
	UpperStarter float64
	LowerTemp    float64
	UpperTemp    float64
	Rise         RiseTarget
}

// FlourMix describes the flour blend as percentages of total flour.
type FlourMix struct {
	WholeWheat     float64
	Rye            float64
	ProteinContent float64 // average protein %, 0 when not provided
}

// BaselineFlourMix returns the blend the dataset was measured with.
func BaselineFlourMix() FlourMix {
	return FlourMix{
		WholeWheat:     BaselineWholeWheat,
		Rye:            BaselineRye,
		ProteinContent: BaselineProtein,
	}
}

// Adjustments carries the optional composition inputs. Each field is
// checked on its own against its baseline: a nil FlourMix skips the flour
// step entirely, a zero SaltPercentage means salt was not provided.
type Adjustments struct {
	FlourMix       *FlourMix
	SaltPercentage float64
}

// BaselineAdjustments returns adjustments equal to the test conditions,
// which leave the interpolated time unchanged.
func BaselineAdjustments() Adjustments {
	mix := BaselineFlourMix()
	return Adjustments{FlourMix: &mix, SaltPercentage: BaselineSalt}
}

// Inputs groups the four primitive estimation inputs.
type Inputs struct {
	TemperatureF float64
	StarterPct   float64
	TargetRise   float64
	Adjustments  Adjustments
}

// Result is the outcome of one estimation. All times are in hours.
// MinTime >= 0 always and EstimatedTime <= MaxTime always. MinTime <=
// EstimatedTime holds only while EstimatedTime is non-negative: far
// outside the tested range extrapolation can push EstimatedTime below
// zero, and MinTime is still clamped to 0.
type Result struct {
	EstimatedTime float64
	MinTime       float64
	MaxTime       float64
	Warnings      []string
	Cell          Cell
}
