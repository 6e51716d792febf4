package pacing

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func validSet() ParameterSet {
	return ParameterSet{
		LowerRateLimit:         60,
		UpperRateLimit:         120,
		MaxSensorRate:          120,
		AtrialAmplitude:        3.5,
		VentricularAmplitude:   3.5,
		AtrialPulseWidth:       0.4,
		VentricularPulseWidth:  0.4,
		AtrialSensitivity:      0.75,
		VentricularSensitivity: 2.0,
		VRP:                    320,
		ARP:                    250,
		PVARP:                  250,
		RateSmoothing:          6,
		ReactionTime:           30,
		ResponseFactor:         8,
		RecoveryTime:           5,
		ActivityThreshold:      3,
		Hysteresis:             0,
	}
}

func TestParseMode(t *testing.T) {
	for _, mode := range AllModes() {
		parsed, err := ParseMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	m, err := ParseMode(" vvir ")
	require.NoError(t, err)
	require.Equal(t, VVIR, m)

	_, err = ParseMode("DDD")
	var unknown *UnknownModeError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "DDD", unknown.Name)

	_, err = ParseMode(" ddd ")
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, " ddd ", unknown.Name)
}

func TestModeProperties(t *testing.T) {
	testCases := []struct {
		mode     Mode
		chamber  byte
		adaptive bool
		count    int
	}{
		{AOO, 'A', false, 4},
		{VOO, 'V', false, 4},
		{AAI, 'A', false, 7},
		{VVI, 'V', false, 7},
		{AOOR, 'A', true, 7},
		{VOOR, 'V', true, 7},
		{AAIR, 'A', true, 10},
		{VVIR, 'V', true, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			require.Equal(t, tc.chamber, tc.mode.Chamber())
			require.Equal(t, tc.adaptive, tc.mode.RateAdaptive())
			params := tc.mode.Params()
			require.Len(t, params, tc.count)
			require.Equal(t, LowerRateLimit, params[0])
			require.Equal(t, UpperRateLimit, params[1])
			for _, p := range params {
				require.True(t, tc.mode.Applies(p))
			}
			for _, p := range []Param{Hysteresis, PVARP, RecoveryTime, ActivityThreshold} {
				require.False(t, tc.mode.Applies(p), p.Label())
			}
		})
	}
}

func TestModeParamsIsACopy(t *testing.T) {
	params := VVI.Params()
	params[0] = Hysteresis
	require.Equal(t, LowerRateLimit, VVI.Params()[0])
}

func TestParseParam(t *testing.T) {
	testCases := []struct {
		name   string
		expect Param
	}{
		{"Lower Rate Limit", LowerRateLimit},
		{"Lower Rate Limit (ppm)", LowerRateLimit},
		{"ventricular amplitude", VentricularAmplitude},
		{"VRP (ms)", VRP},
		{"Rate Smoothing (%)", RateSmoothing},
		{" Response Factor ", ResponseFactor},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := ParseParam(tc.name)
			require.NoError(t, err)
			require.Equal(t, tc.expect, p)
		})
	}

	_, err := ParseParam("Heart Rate")
	var unknown *UnknownParamError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "Heart Rate", unknown.Name)
}

func TestParamLabel(t *testing.T) {
	require.Equal(t, "VRP (ms)", VRP.Label())
	require.Equal(t, "Response Factor", ResponseFactor.Label())
	for _, p := range AllParams() {
		parsed, err := ParseParam(p.Label())
		require.NoError(t, err)
		require.Equal(t, p, parsed)
	}
}

func TestParamCheck(t *testing.T) {
	testCases := []struct {
		name  string
		param Param
		value float64
		ok    bool
	}{
		{"lrl min", LowerRateLimit, 30, true},
		{"lrl max", LowerRateLimit, 175, true},
		{"lrl low", LowerRateLimit, 20, false},
		{"lrl high", LowerRateLimit, 176, false},
		{"lrl fractional", LowerRateLimit, 60.5, false},
		{"amplitude real", VentricularAmplitude, 3.5, true},
		{"amplitude low", VentricularAmplitude, 0.05, false},
		{"pulse width", VentricularPulseWidth, 0.4, true},
		{"sensitivity zero", AtrialSensitivity, 0, true},
		{"nan", VRP, math.NaN(), false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.param.Check(tc.value)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			var oor *OutOfRangeError
			require.True(t, errors.As(err, &oor))
			require.Equal(t, tc.param, oor.Param)
			require.Equal(t, tc.param.Info().Range, oor.Range)
		})
	}
}

func TestResolve(t *testing.T) {
	for _, mode := range AllModes() {
		t.Run(mode.String(), func(t *testing.T) {
			s, err := Resolve(mode, validSet())
			require.NoError(t, err)
			require.Equal(t, mode, s.Mode)
			for _, p := range AllParams() {
				_, ok := s.Value(p)
				require.Equal(t, mode.Applies(p), ok, p.String())
			}
		})
	}
}

func TestResolveMissing(t *testing.T) {
	for _, mode := range AllModes() {
		for _, p := range mode.Params() {
			t.Run(mode.String()+"/"+p.String(), func(t *testing.T) {
				set := validSet()
				delete(set, p)
				_, err := Resolve(mode, set)
				var missing *MissingParameterError
				require.True(t, errors.As(err, &missing))
				require.Equal(t, p, missing.Param)
			})
		}
	}
}

func TestResolveIgnoresInapplicable(t *testing.T) {
	set := validSet()
	set[Hysteresis] = 99
	set[AtrialAmplitude] = -1
	s, err := Resolve(VVI, set)
	require.NoError(t, err)
	_, ok := s.Value(AtrialAmplitude)
	require.False(t, ok)
	require.Equal(t, 1.0, s.ValueOr(ResponseFactor, 1))
}

func TestResolveRateOrder(t *testing.T) {
	set := validSet()
	set[LowerRateLimit], set[UpperRateLimit] = 100, 90
	_, err := Resolve(VOO, set)
	var oor *OutOfRangeError
	require.True(t, errors.As(err, &oor))
	require.Equal(t, UpperRateLimit, oor.Param)
	require.Equal(t, Range{Min: 100, Max: 175}, oor.Range)
}

func TestParameterSetFromNames(t *testing.T) {
	set, err := ParameterSetFromNames(map[string]float64{
		"Lower Rate Limit (ppm)": 60,
		"VRP":                    320,
	})
	require.NoError(t, err)
	require.Equal(t, ParameterSet{LowerRateLimit: 60, VRP: 320}, set)
	require.Equal(t, map[string]float64{"Lower Rate Limit": 60, "VRP": 320}, set.Names())

	_, err = ParameterSetFromNames(map[string]float64{"Pulse": 1})
	require.Error(t, err)
}

func TestNominalResolves(t *testing.T) {
	for _, mode := range AllModes() {
		s, err := Resolve(mode, Nominal())
		require.NoError(t, err, mode.String())
		require.Equal(t, 60.0, s.ValueOr(LowerRateLimit, 0))
	}
}
