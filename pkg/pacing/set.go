package pacing

// ParameterSet maps parameters to values. Values of parameters not
// applicable to the active mode are ignored.
type ParameterSet map[Param]float64

// ParameterSetFromNames converts a name keyed mapping from the
// configuration layer.
func ParameterSetFromNames(values map[string]float64) (ParameterSet, error) {
	set := make(ParameterSet, len(values))
	for name, val := range values {
		p, err := ParseParam(name)
		if err != nil {
			return nil, err
		}
		set[p] = val
	}
	return set, nil
}

// Names converts the set back to a name keyed mapping.
func (s ParameterSet) Names() map[string]float64 {
	values := make(map[string]float64, len(s))
	for p, val := range s {
		values[p.String()] = val
	}
	return values
}

// Settings is a parameter set validated against a mode.
// It only contains the parameters applicable to the mode.
type Settings struct {
	Mode   Mode
	values map[Param]float64
}

// Value gets the value of p, false if p doesn't apply to the mode.
func (s *Settings) Value(p Param) (float64, bool) {
	val, ok := s.values[p]
	return val, ok
}

// ValueOr gets the value of p or def if p doesn't apply to the mode.
func (s *Settings) ValueOr(p Param, def float64) float64 {
	if val, ok := s.values[p]; ok {
		return val
	}
	return def
}

// Resolve validates set against the applicable parameters of mode,
// in the order the mode lists them.
func Resolve(mode Mode, set ParameterSet) (*Settings, error) {
	if !mode.IsValid() {
		return nil, &UnknownModeError{Name: mode.String()}
	}
	params := modeParams[mode]
	s := &Settings{Mode: mode, values: make(map[Param]float64, len(params))}
	for _, p := range params {
		val, ok := set[p]
		if !ok {
			return nil, &MissingParameterError{Param: p}
		}
		if err := p.Check(val); err != nil {
			return nil, err
		}
		s.values[p] = val
	}
	lower, upper := s.values[LowerRateLimit], s.values[UpperRateLimit]
	if upper < lower {
		return nil, &OutOfRangeError{
			Param: UpperRateLimit,
			Value: upper,
			Range: Range{Min: lower, Max: paramInfos[UpperRateLimit].Range.Max},
		}
	}
	return s, nil
}
