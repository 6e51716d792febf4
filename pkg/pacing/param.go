package pacing

import (
	"fmt"
	"math"
	"strings"
)

// Param identifies a programmable pacing parameter.
type Param int

// Programmable parameters.
const (
	LowerRateLimit Param = iota
	UpperRateLimit
	MaxSensorRate
	AtrialAmplitude
	VentricularAmplitude
	AtrialPulseWidth
	VentricularPulseWidth
	AtrialSensitivity
	VentricularSensitivity
	VRP
	ARP
	PVARP
	RateSmoothing
	ReactionTime
	ResponseFactor
	RecoveryTime
	ActivityThreshold
	Hysteresis

	numParams
)

// Kind tells whether a parameter takes integer or real values.
type Kind int

// Parameter kinds.
const (
	KindInteger Kind = iota
	KindReal
)

// Range is an inclusive range of valid values.
type Range struct {
	Min float64
	Max float64
}

// Contains checks if v falls inside the range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// String implements fmt.Stringer.
func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// ParamInfo describes a parameter.
type ParamInfo struct {
	Name    string
	Unit    string
	Range   Range
	Kind    Kind
	Nominal float64
}

var paramInfos = [numParams]ParamInfo{
	LowerRateLimit:         {"Lower Rate Limit", "ppm", Range{30, 175}, KindInteger, 60},
	UpperRateLimit:         {"Upper Rate Limit", "ppm", Range{50, 175}, KindInteger, 120},
	MaxSensorRate:          {"Maximum Sensor Rate", "ppm", Range{50, 175}, KindInteger, 120},
	AtrialAmplitude:        {"Atrial Amplitude", "V", Range{0.1, 5.0}, KindReal, 3.5},
	VentricularAmplitude:   {"Ventricular Amplitude", "V", Range{0.1, 5.0}, KindReal, 3.5},
	AtrialPulseWidth:       {"Atrial Pulse Width", "ms", Range{0.05, 30}, KindReal, 0.4},
	VentricularPulseWidth:  {"Ventricular Pulse Width", "ms", Range{0.05, 30}, KindReal, 0.4},
	AtrialSensitivity:      {"Atrial Sensitivity", "mV", Range{0, 5}, KindReal, 0.75},
	VentricularSensitivity: {"Ventricular Sensitivity", "mV", Range{0, 5}, KindReal, 2.5},
	VRP:                    {"VRP", "ms", Range{150, 500}, KindInteger, 320},
	ARP:                    {"ARP", "ms", Range{150, 500}, KindInteger, 250},
	PVARP:                  {"PVARP", "ms", Range{150, 500}, KindInteger, 250},
	RateSmoothing:          {"Rate Smoothing", "%", Range{3, 25}, KindInteger, 6},
	ReactionTime:           {"Reaction Time", "s", Range{10, 50}, KindInteger, 30},
	ResponseFactor:         {"Response Factor", "", Range{1, 16}, KindInteger, 8},
	RecoveryTime:           {"Recovery Time", "min", Range{2, 16}, KindInteger, 5},
	ActivityThreshold:      {"Activity Threshold", "", Range{0, 6}, KindInteger, 3},
	Hysteresis:             {"Hysteresis", "", Range{0, 1}, KindInteger, 0},
}

// AllParams lists every parameter in declaration order.
func AllParams() []Param {
	params := make([]Param, numParams)
	for n := range params {
		params[n] = Param(n)
	}
	return params
}

// Nominal returns the nominal value of every parameter.
func Nominal() ParameterSet {
	set := make(ParameterSet, numParams)
	for n, info := range paramInfos {
		set[Param(n)] = info.Nominal
	}
	return set
}

// IsValid indicates p is a known parameter.
func (p Param) IsValid() bool {
	return p >= 0 && p < numParams
}

// Info returns the schema entry of the parameter.
func (p Param) Info() ParamInfo {
	if !p.IsValid() {
		return ParamInfo{Name: fmt.Sprintf("Param(%d)", int(p))}
	}
	return paramInfos[p]
}

// String implements fmt.Stringer.
func (p Param) String() string {
	return p.Info().Name
}

// Label is the name with unit suffix, e.g. "VRP (ms)".
func (p Param) Label() string {
	info := p.Info()
	if info.Unit == "" {
		return info.Name
	}
	return info.Name + " (" + info.Unit + ")"
}

// Check validates a value against the parameter range and kind.
func (p Param) Check(value float64) error {
	info := p.Info()
	if math.IsNaN(value) || !info.Range.Contains(value) {
		return &OutOfRangeError{Param: p, Value: value, Range: info.Range}
	}
	if info.Kind == KindInteger && value != math.Trunc(value) {
		return &OutOfRangeError{Param: p, Value: value, Range: info.Range}
	}
	return nil
}

// ParseParam looks up a parameter by name. The unit suffix is optional
// and case is ignored.
func ParseParam(name string) (Param, error) {
	key := normalizeName(name)
	for n, info := range paramInfos {
		if strings.EqualFold(info.Name, key) {
			return Param(n), nil
		}
	}
	return -1, &UnknownParamError{Name: name}
}

func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if pos := strings.LastIndex(name, " ("); pos > 0 && strings.HasSuffix(name, ")") {
		name = name[:pos]
	}
	return name
}
