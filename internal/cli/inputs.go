package cli

import (
	"context"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// doughFlags are the estimation inputs shared by estimate and watch.
type doughFlags struct {
	temp       float64
	starter    float64
	rise       float64
	wholeWheat float64
	rye        float64
	protein    float64
	salt       float64
	formula    string

	cmd *cobra.Command // nil when built by hand
}

func (f *doughFlags) register(cmd *cobra.Command) {
	f.cmd = cmd
	base := domain.BaselineAdjustments()
	fl := cmd.Flags()
	fl.Float64VarP(&f.temp, "temp", "t", 0, "dough temperature, in the configured unit")
	fl.Float64VarP(&f.starter, "starter", "s", 0, "starter as a percentage of flour weight")
	fl.Float64VarP(&f.rise, "rise", "r", float64(domain.Rise75), "target rise percentage (75 or 100)")
	fl.Float64Var(&f.wholeWheat, "whole-wheat", base.FlourMix.WholeWheat, "whole wheat percentage of total flour")
	fl.Float64Var(&f.rye, "rye", base.FlourMix.Rye, "rye percentage of total flour")
	fl.Float64Var(&f.protein, "protein", base.FlourMix.ProteinContent, "average flour protein percentage")
	fl.Float64Var(&f.salt, "salt", base.SaltPercentage, "salt as a percentage of flour weight")
	fl.StringVarP(&f.formula, "formula", "f", "", "named dough formula (see 'bulkferm formulas'); explicit flags override it")
	_ = cmd.MarkFlagRequired("temp")
	_ = cmd.MarkFlagRequired("starter")
}

// inputs validates the flags and converts the temperature to °F. A
// formula supplies the flour mix and salt for any flag not set explicitly.
func (f *doughFlags) inputs(ctx context.Context, unit units.Unit, formulas domain.FormulaSource) (domain.Inputs, error) {
	named := []struct {
		name string
		v    float64
	}{
		{"temp", f.temp}, {"starter", f.starter}, {"rise", f.rise},
		{"whole-wheat", f.wholeWheat}, {"rye", f.rye}, {"protein", f.protein}, {"salt", f.salt},
	}
	for _, n := range named {
		if math.IsNaN(n.v) || math.IsInf(n.v, 0) {
			return domain.Inputs{}, fmt.Errorf("--%s must be a finite number", n.name)
		}
	}
	if f.starter < 0 {
		return domain.Inputs{}, fmt.Errorf("--starter must not be negative")
	}

	adj := domain.Adjustments{
		FlourMix: &domain.FlourMix{
			WholeWheat:     f.wholeWheat,
			Rye:            f.rye,
			ProteinContent: f.protein,
		},
		SaltPercentage: f.salt,
	}
	if f.formula != "" {
		formula, err := formulas.Get(ctx, f.formula)
		if err != nil {
			return domain.Inputs{}, fmt.Errorf("formula %q: %w", f.formula, err)
		}
		fromFormula := formula.Adjustments()
		keep := func(name string, dst *float64, v float64) {
			if !f.changed(name) {
				*dst = v
			}
		}
		keep("whole-wheat", &adj.FlourMix.WholeWheat, fromFormula.FlourMix.WholeWheat)
		keep("rye", &adj.FlourMix.Rye, fromFormula.FlourMix.Rye)
		keep("protein", &adj.FlourMix.ProteinContent, fromFormula.FlourMix.ProteinContent)
		keep("salt", &adj.SaltPercentage, fromFormula.SaltPercentage)
	}

	return domain.Inputs{
		TemperatureF: units.ToFahrenheit(f.temp, unit),
		StarterPct:   f.starter,
		TargetRise:   f.rise,
		Adjustments:  adj,
	}, nil
}

func (f *doughFlags) changed(name string) bool {
	return f.cmd != nil && f.cmd.Flags().Changed(name)
}
