package engine

import (
	"math"

	"github.com/hammamikhairi/bulkferm/internal/domain"
)

// Warning texts, in the order they are emitted.
const (
	WarnTempBelow    = "Temperature below tested range (66°F/19°C). Results may be less accurate."
	WarnTempAbove    = "Temperature above tested range (74°F/23°C). Results may be less accurate."
	WarnStarterBelow = "Starter percentage below tested range (5%). Results may be less accurate."
	WarnStarterAbove = "Starter percentage above tested range (20%). Results may be less accurate."
	WarnRiseSnapped  = "Only 75% and 100% rise data is available. Using closest match."
)

// Adjustment rates per percentage point away from the baseline dough.
const (
	wholeWheatRate = 0.01
	ryeRate        = 0.015
	proteinRate    = 0.01
	saltRate       = 0.05
)

// Confidence band, in hours.
const (
	baseInterval        = 0.5  // inside the measured range
	tempIntervalRate    = 0.25 // per °F outside the range
	starterIntervalRate = 0.2  // per starter point outside the range
)

// Estimate returns the bulk fermentation time for a dough at tempF with
// starterPct starter, rising to targetRise percent.
//
// Inputs outside the measured range never fail: the nearest edge segment
// is extrapolated and a warning is attached instead. Estimate is pure and
// safe for concurrent use. NaN and infinite inputs are not checked.
func (e *Engine) Estimate(tempF, starterPct, targetRise float64, adj domain.Adjustments) domain.Result {
	warnings := validate(tempF, starterPct, targetRise)

	cell := selectCell(tempF, starterPct, domain.SnapRise(targetRise))
	base := e.interpolate(cell, tempF, starterPct)
	adjusted := applyAdjustments(base, adj)
	interval := confidenceInterval(tempF, starterPct)

	e.log.Debug("estimate %.1f°F %.1f%% %s: base=%.3fh adjusted=%.3fh ±%.2fh warnings=%d",
		tempF, starterPct, cell.Rise, base, adjusted, interval, len(warnings))

	return domain.Result{
		EstimatedTime: adjusted,
		MinTime:       math.Max(0, adjusted-interval),
		MaxTime:       adjusted + interval,
		Warnings:      warnings,
		Cell:          cell,
	}
}

// EstimateInputs is Estimate over a grouped set of inputs.
func (e *Engine) EstimateInputs(in domain.Inputs) domain.Result {
	return e.Estimate(in.TemperatureF, in.StarterPct, in.TargetRise, in.Adjustments)
}

// validate returns advisories for inputs outside the measured data,
// ordered temperature, starter, rise.
func validate(tempF, starterPct, targetRise float64) []string {
	warnings := []string{}

	if tempF < domain.MinTestedTempF {
		warnings = append(warnings, WarnTempBelow)
	} else if tempF > domain.MaxTestedTempF {
		warnings = append(warnings, WarnTempAbove)
	}

	if starterPct < domain.MinTestedStarter {
		warnings = append(warnings, WarnStarterBelow)
	} else if starterPct > domain.MaxTestedStarter {
		warnings = append(warnings, WarnStarterAbove)
	}

	if targetRise != float64(domain.Rise75) && targetRise != float64(domain.Rise100) {
		warnings = append(warnings, WarnRiseSnapped)
	}

	return warnings
}

func selectCell(tempF, starterPct float64, rise domain.RiseTarget) domain.Cell {
	lt, ut := bracket(domain.TemperaturePoints[:], tempF)
	ls, us := bracket(domain.StarterPoints[:], starterPct)
	return domain.Cell{
		LowerStarter: ls,
		UpperStarter: us,
		LowerTemp:    lt,
		UpperTemp:    ut,
		Rise:         rise,
	}
}

// bracket returns the adjacent axis pair containing v. Values beyond
// either end get the edge segment so the caller extrapolates along it.
// axis must be sorted and hold at least two points.
func bracket(axis []float64, v float64) (lower, upper float64) {
	n := len(axis)
	if v < axis[0] {
		return axis[0], axis[1]
	}
	if v > axis[n-1] {
		return axis[n-2], axis[n-1]
	}
	for i := 0; i < n-1; i++ {
		if v >= axis[i] && v <= axis[i+1] {
			return axis[i], axis[i+1]
		}
	}
	return axis[0], axis[n-1]
}

// interpolate runs bilinear interpolation over the cell corners, first
// along temperature and then along starter.
func (e *Engine) interpolate(cell domain.Cell, tempF, starterPct float64) float64 {
	q11 := e.corner(cell.LowerStarter, cell.LowerTemp, cell.Rise)
	q12 := e.corner(cell.LowerStarter, cell.UpperTemp, cell.Rise)
	q21 := e.corner(cell.UpperStarter, cell.LowerTemp, cell.Rise)
	q22 := e.corner(cell.UpperStarter, cell.UpperTemp, cell.Rise)

	tempRatio := ratio(tempF, cell.LowerTemp, cell.UpperTemp)
	starterRatio := ratio(starterPct, cell.LowerStarter, cell.UpperStarter)

	r1 := q11*(1-tempRatio) + q12*tempRatio
	r2 := q21*(1-tempRatio) + q22*tempRatio
	return r1*(1-starterRatio) + r2*starterRatio
}

// corner reads one cell corner. Cells are built from axis values only, so
// a failed lookup means the dataset itself is broken.
func (e *Engine) corner(starter, tempF float64, rise domain.RiseTarget) float64 {
	h, err := e.data.Lookup(starter, tempF, rise)
	if err != nil {
		panic("engine: dataset missing cell corner: " + err.Error())
	}
	return h
}

func ratio(v, lower, upper float64) float64 {
	span := upper - lower
	if span == 0 {
		return 0
	}
	return (v - lower) / span
}

// applyAdjustments scales the interpolated time for flour then salt. Each
// field is compared with its own baseline.
func applyAdjustments(base float64, adj domain.Adjustments) float64 {
	t := base
	if adj.FlourMix != nil {
		t = adjustForFlour(t, *adj.FlourMix)
	}
	if adj.SaltPercentage != 0 && adj.SaltPercentage != domain.BaselineSalt {
		t = adjustForSalt(t, adj.SaltPercentage)
	}
	return t
}

// adjustForFlour speeds fermentation up for whole grains and scales with
// protein. Neither factor is bounded below.
func adjustForFlour(base float64, mix domain.FlourMix) float64 {
	grain := 1.0
	if mix.WholeWheat > domain.BaselineWholeWheat {
		grain -= (mix.WholeWheat - domain.BaselineWholeWheat) * wholeWheatRate
	}
	if mix.Rye > domain.BaselineRye {
		grain -= mix.Rye * ryeRate
	}

	protein := 1.0
	if mix.ProteinContent != 0 && mix.ProteinContent != domain.BaselineProtein {
		protein += (mix.ProteinContent - domain.BaselineProtein) * proteinRate
	}

	return base * grain * protein
}

// adjustForSalt slows fermentation for salt above 2% and speeds it up below.
func adjustForSalt(base, saltPct float64) float64 {
	return base * (1 + (saltPct-domain.BaselineSalt)*saltRate)
}

// confidenceInterval grows with the distance from the measured range. It
// ignores composition entirely.
func confidenceInterval(tempF, starterPct float64) float64 {
	tempDistance := outside(tempF, domain.MinTestedTempF, domain.MaxTestedTempF)
	starterDistance := outside(starterPct, domain.MinTestedStarter, domain.MaxTestedStarter)
	return baseInterval + tempIntervalRate*tempDistance + starterIntervalRate*starterDistance
}

// outside returns how far v lies past the nearer edge of [lo, hi], or 0.
func outside(v, lo, hi float64) float64 {
	return math.Max(0, math.Max(lo-v, v-hi))
}
