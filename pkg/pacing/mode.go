package pacing

import "strings"

// Mode is a pacing mode.
type Mode int

// Pacing modes. The R suffix marks rate-adaptive variants.
const (
	AOO Mode = iota
	VOO
	AAI
	VVI
	AOOR
	VOOR
	AAIR
	VVIR

	numModes
)

var modeNames = [numModes]string{
	AOO:  "AOO",
	VOO:  "VOO",
	AAI:  "AAI",
	VVI:  "VVI",
	AOOR: "AOOR",
	VOOR: "VOOR",
	AAIR: "AAIR",
	VVIR: "VVIR",
}

var (
	atrialAsync        = []Param{LowerRateLimit, UpperRateLimit, AtrialAmplitude, AtrialPulseWidth}
	ventricularAsync   = []Param{LowerRateLimit, UpperRateLimit, VentricularAmplitude, VentricularPulseWidth}
	atrialInhibit      = append(dup(atrialAsync), AtrialSensitivity, ARP, RateSmoothing)
	ventricularInhibit = append(dup(ventricularAsync), VentricularSensitivity, VRP, RateSmoothing)
	rateAdaptive       = []Param{MaxSensorRate, ReactionTime, ResponseFactor}

	modeParams = [numModes][]Param{
		AOO:  atrialAsync,
		VOO:  ventricularAsync,
		AAI:  atrialInhibit,
		VVI:  ventricularInhibit,
		AOOR: append(dup(atrialAsync), rateAdaptive...),
		VOOR: append(dup(ventricularAsync), rateAdaptive...),
		AAIR: append(dup(atrialInhibit), rateAdaptive...),
		VVIR: append(dup(ventricularInhibit), rateAdaptive...),
	}
)

func dup(params []Param) []Param {
	return append(make([]Param, 0, len(params)+len(rateAdaptive)), params...)
}

// AllModes lists every pacing mode.
func AllModes() []Mode {
	modes := make([]Mode, numModes)
	for n := range modes {
		modes[n] = Mode(n)
	}
	return modes
}

// ParseMode parses the mode name, e.g. "VVIR".
func ParseMode(name string) (Mode, error) {
	key := strings.ToUpper(strings.TrimSpace(name))
	for n, modeName := range modeNames {
		if modeName == key {
			return Mode(n), nil
		}
	}
	return -1, &UnknownModeError{Name: name}
}

// IsValid indicates m is a known mode.
func (m Mode) IsValid() bool {
	return m >= 0 && m < numModes
}

// String implements fmt.Stringer.
func (m Mode) String() string {
	if !m.IsValid() {
		return "UNKNOWN"
	}
	return modeNames[m]
}

// Chamber is the first letter of the mode name: 'A' or 'V'.
func (m Mode) Chamber() byte {
	if !m.IsValid() {
		return 0
	}
	return modeNames[m][0]
}

// RateAdaptive indicates the mode adjusts rate by sensor input.
func (m Mode) RateAdaptive() bool {
	return m.IsValid() && strings.HasSuffix(modeNames[m], "R")
}

// Params returns the ordered list of parameters required by the mode.
// Only parameters carried in the request packet are listed, so
// Hysteresis, PVARP, RecoveryTime and ActivityThreshold are never
// consulted even where the mode would clinically use them.
func (m Mode) Params() []Param {
	if !m.IsValid() {
		return nil
	}
	return append([]Param(nil), modeParams[m]...)
}

// Applies checks if p is consulted in this mode.
func (m Mode) Applies(p Param) bool {
	if !m.IsValid() {
		return false
	}
	for _, param := range modeParams[m] {
		if param == p {
			return true
		}
	}
	return false
}
