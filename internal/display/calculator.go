package display

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hammamikhairi/bulkferm/internal/domain"
	"github.com/hammamikhairi/bulkferm/internal/units"
)

// Estimator computes a result for complete inputs.
type Estimator interface {
	EstimateInputs(in domain.Inputs) domain.Result
}

type field int

const (
	fieldTemp field = iota
	fieldStarter
	fieldRise
	fieldWholeWheat
	fieldRye
	fieldProtein
	fieldSalt
	fieldCount
)

// Calculator is an interactive form that re-estimates on every keystroke.
// Blank adjustment fields fall back to the baseline mix.
type Calculator struct {
	est    Estimator
	unit   units.Unit
	now    func() time.Time
	inputs [fieldCount]textinput.Model
	labels [fieldCount]string
	focus  field

	result *domain.Result
	parsed domain.Inputs
	err    error
}

// NewCalculator builds the form prefilled with a 70°F (or 21°C), 15%
// starter, 75% rise dough.
func NewCalculator(est Estimator, unit units.Unit, now func() time.Time) Calculator {
	if now == nil {
		now = time.Now
	}
	c := Calculator{est: est, unit: unit, now: now}

	defaults := [fieldCount]string{fieldStarter: "15", fieldRise: "75"}
	defaults[fieldTemp] = formatNumber(units.RoundTemperature(units.FromFahrenheit(70, unit)))

	base := domain.BaselineAdjustments()
	placeholders := [fieldCount]string{
		fieldWholeWheat: formatNumber(base.FlourMix.WholeWheat),
		fieldRye:        formatNumber(base.FlourMix.Rye),
		fieldProtein:    formatNumber(base.FlourMix.ProteinContent),
		fieldSalt:       formatNumber(base.SaltPercentage),
	}
	c.labels = [fieldCount]string{
		fieldTemp:       "Dough temp (" + unit.Symbol() + ")",
		fieldStarter:    "Starter %",
		fieldRise:       "Target rise %",
		fieldWholeWheat: "Whole wheat %",
		fieldRye:        "Rye %",
		fieldProtein:    "Protein %",
		fieldSalt:       "Salt %",
	}

	for i := range c.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 8
		ti.Width = 8
		ti.Placeholder = placeholders[i]
		ti.SetValue(defaults[i])
		c.inputs[i] = ti
	}
	c.inputs[fieldTemp].Focus()
	c.recompute()
	return c
}

// Init implements tea.Model.
func (c Calculator) Init() tea.Cmd { return textinput.Blink }

// Update implements tea.Model.
func (c Calculator) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return c, tea.Quit
		case "tab", "down", "enter":
			return c, c.moveFocus(1)
		case "shift+tab", "up":
			return c, c.moveFocus(-1)
		}
	}

	var cmd tea.Cmd
	c.inputs[c.focus], cmd = c.inputs[c.focus].Update(msg)
	c.recompute()
	return c, cmd
}

func (c *Calculator) moveFocus(delta int) tea.Cmd {
	c.inputs[c.focus].Blur()
	c.focus = field((int(c.focus) + delta + int(fieldCount)) % int(fieldCount))
	return c.inputs[c.focus].Focus()
}

func (c *Calculator) recompute() {
	in, err := c.read()
	if err != nil {
		c.result, c.err = nil, err
		return
	}
	res := c.est.EstimateInputs(in)
	c.parsed, c.result, c.err = in, &res, nil
}

// read parses the form into engine inputs.
func (c *Calculator) read() (domain.Inputs, error) {
	var vals [fieldCount]float64
	for i := range c.inputs {
		s := strings.TrimSpace(c.inputs[i].Value())
		if s == "" {
			if field(i) <= fieldStarter {
				return domain.Inputs{}, fmt.Errorf("enter a value for %s", strings.ToLower(c.labels[i]))
			}
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return domain.Inputs{}, fmt.Errorf("%s must be a number", strings.ToLower(c.labels[i]))
		}
		vals[i] = v
	}

	adj := domain.BaselineAdjustments()
	set := func(f field, dst *float64) {
		if strings.TrimSpace(c.inputs[f].Value()) != "" {
			*dst = vals[f]
		}
	}
	set(fieldWholeWheat, &adj.FlourMix.WholeWheat)
	set(fieldRye, &adj.FlourMix.Rye)
	set(fieldProtein, &adj.FlourMix.ProteinContent)
	set(fieldSalt, &adj.SaltPercentage)

	rise := float64(domain.Rise75)
	set(fieldRise, &rise)

	return domain.Inputs{
		TemperatureF: units.ToFahrenheit(vals[fieldTemp], c.unit),
		StarterPct:   vals[fieldStarter],
		TargetRise:   rise,
		Adjustments:  adj,
	}, nil
}

// Result returns the latest estimate, or nil while the form is invalid.
func (c Calculator) Result() *domain.Result { return c.result }

// View implements tea.Model.
func (c Calculator) View() string {
	var b strings.Builder
	b.WriteString(headlineStyle.Render("Bulk fermentation calculator"))
	b.WriteString("\n\n")

	for i := range c.inputs {
		label := labelStyle
		if field(i) == c.focus {
			label = focusedLabelStyle
		}
		b.WriteString(label.Width(16).Render(c.labels[i]))
		b.WriteString(c.inputs[i].View())
		b.WriteByte('\n')
		if field(i) == fieldRise {
			b.WriteString(secondaryStyle.Render("Adjustments (blank = baseline)"))
			b.WriteByte('\n')
		}
	}
	b.WriteByte('\n')

	switch {
	case c.err != nil:
		b.WriteString(urgentOutputStyle.Render("  " + c.err.Error()))
		b.WriteByte('\n')
	case c.result != nil:
		b.WriteString(RenderResult(c.parsed, *c.result, c.now(), c.unit))
	}

	b.WriteString("\n" + secondaryStyle.Render("tab/shift+tab to move, esc to quit"))
	return b.String()
}
