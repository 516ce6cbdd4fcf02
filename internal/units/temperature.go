// Package units converts temperatures and formats durations and clock
// times for display. The estimator itself always works in °F.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Unit is a temperature scale.
type Unit string

const (
	Fahrenheit Unit = "F"
	Celsius    Unit = "C"
)

// ParseUnit accepts "F", "C", "fahrenheit" or "celsius" in any case.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "F", "FAHRENHEIT", "°F":
		return Fahrenheit, nil
	case "C", "CELSIUS", "°C":
		return Celsius, nil
	default:
		return "", fmt.Errorf("unknown temperature unit %q", s)
	}
}

// Symbol returns the degree symbol and letter, e.g. "°F".
func (u Unit) Symbol() string { return "°" + string(u) }

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// ToFahrenheit converts a reading in unit u to °F.
func ToFahrenheit(value float64, u Unit) float64 {
	if u == Celsius {
		return CelsiusToFahrenheit(value)
	}
	return value
}

// FromFahrenheit converts a °F reading to unit u.
func FromFahrenheit(f float64, u Unit) float64 {
	if u == Celsius {
		return FahrenheitToCelsius(f)
	}
	return f
}

// RoundTemperature rounds to the nearest whole degree.
func RoundTemperature(t float64) float64 {
	return math.Round(t)
}

// Ranges describes the input limits offered to users and the measured
// sub-range for one unit.
type Ranges struct {
	Min, Max             float64
	TestedMin, TestedMax float64
}

// RangesFor returns the input and tested ranges for u.
func RangesFor(u Unit) Ranges {
	if u == Celsius {
		return Ranges{Min: 10, Max: 30, TestedMin: 19, TestedMax: 23}
	}
	return Ranges{Min: 50, Max: 85, TestedMin: 66, TestedMax: 74}
}

// Preset is a named common room temperature.
type Preset struct {
	Label string
	Value float64
}

// PresetsFor returns cool, room and warm presets in unit u.
func PresetsFor(u Unit) []Preset {
	if u == Celsius {
		return []Preset{
			{Label: "Cool Room (18°C)", Value: 18},
			{Label: "Room Temp (21°C)", Value: 21},
			{Label: "Warm Room (24°C)", Value: 24},
		}
	}
	return []Preset{
		{Label: "Cool Room (65°F)", Value: 65},
		{Label: "Room Temp (70°F)", Value: 70},
		{Label: "Warm Room (75°F)", Value: 75},
	}
}
