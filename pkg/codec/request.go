package codec

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/robotalks/dcm.go/pkg/pacing"
)

// Protocol constants.
const (
	// Sync marks the start of a request packet.
	Sync byte = 0x16
	// FnSetParams programs the device with the carried parameters.
	FnSetParams byte = 0x55
	// FnEcho asks the device to report its parameters without changing them.
	FnEcho byte = 0x22

	// RequestSize is the length of a request packet.
	RequestSize = 27

	// DefaultResponseFactor is sent when the mode doesn't use response factor.
	DefaultResponseFactor = 1
	// DefaultRateSmoothing is sent when the mode doesn't use rate smoothing.
	DefaultRateSmoothing = 6
)

// request field offsets
const (
	reqOffSync           = 0
	reqOffFunction       = 1
	reqOffMode           = 2
	reqOffLowerRate      = 3
	reqOffUpperRate      = 4
	reqOffAmplitude      = 5
	reqOffPulseWidth     = 9
	reqOffSensitivity    = 13
	reqOffMaxSensorRate  = 17
	reqOffRefractory     = 21
	reqOffReactionTime   = 23
	reqOffResponseFactor = 25
	reqOffRateSmoothing  = 26
)

// Request is the decoded form of a request packet.
type Request struct {
	Function       byte
	Mode           byte
	LowerRateLimit uint8
	UpperRateLimit uint8
	Amplitude      float32
	PulseWidth     float32
	Sensitivity    float32
	MaxSensorRate  float32
	Refractory     uint16
	ReactionTime   uint16
	ResponseFactor uint8
	RateSmoothing  uint8
}

// chamber specific parameters for the shared slots.
var chamberParams = map[byte][4]pacing.Param{
	'A': {pacing.AtrialAmplitude, pacing.AtrialPulseWidth, pacing.AtrialSensitivity, pacing.ARP},
	'V': {pacing.VentricularAmplitude, pacing.VentricularPulseWidth, pacing.VentricularSensitivity, pacing.VRP},
}

// NewRequest builds a set-parameters request from resolved settings.
func NewRequest(s *pacing.Settings) *Request {
	chamber := s.Mode.Chamber()
	slots := chamberParams[chamber]
	return &Request{
		Function:       FnSetParams,
		Mode:           chamber,
		LowerRateLimit: uint8(s.ValueOr(pacing.LowerRateLimit, 0)),
		UpperRateLimit: uint8(s.ValueOr(pacing.UpperRateLimit, 0)),
		Amplitude:      float32(s.ValueOr(slots[0], 0)),
		PulseWidth:     float32(s.ValueOr(slots[1], 0)),
		Sensitivity:    float32(s.ValueOr(slots[2], 0)),
		MaxSensorRate:  float32(s.ValueOr(pacing.MaxSensorRate, 0)),
		Refractory:     uint16(s.ValueOr(slots[3], 0)),
		ReactionTime:   uint16(s.ValueOr(pacing.ReactionTime, 0)),
		ResponseFactor: uint8(s.ValueOr(pacing.ResponseFactor, DefaultResponseFactor)),
		RateSmoothing:  uint8(s.ValueOr(pacing.RateSmoothing, DefaultRateSmoothing)),
	}
}

// EchoRequest builds a request which only asks the device to report.
func EchoRequest() *Request {
	return &Request{
		Function:       FnEcho,
		ResponseFactor: DefaultResponseFactor,
		RateSmoothing:  DefaultRateSmoothing,
	}
}

// Encode validates the parameter set against mode and encodes the
// set-parameters request packet.
func Encode(mode pacing.Mode, set pacing.ParameterSet) ([]byte, error) {
	s, err := pacing.Resolve(mode, set)
	if err != nil {
		return nil, err
	}
	return NewRequest(s).Bytes(), nil
}

// Bytes returns encoded bytes for sending.
func (r *Request) Bytes() []byte {
	b := make([]byte, RequestSize)
	b[reqOffSync] = Sync
	b[reqOffFunction] = r.Function
	b[reqOffMode] = r.Mode
	b[reqOffLowerRate] = r.LowerRateLimit
	b[reqOffUpperRate] = r.UpperRateLimit
	putFloat32(b[reqOffAmplitude:], r.Amplitude)
	putFloat32(b[reqOffPulseWidth:], r.PulseWidth)
	putFloat32(b[reqOffSensitivity:], r.Sensitivity)
	putFloat32(b[reqOffMaxSensorRate:], r.MaxSensorRate)
	binary.LittleEndian.PutUint16(b[reqOffRefractory:], r.Refractory)
	binary.LittleEndian.PutUint16(b[reqOffReactionTime:], r.ReactionTime)
	b[reqOffResponseFactor] = r.ResponseFactor
	b[reqOffRateSmoothing] = r.RateSmoothing
	return b
}

// WriteTo writes encoded bytes.
func (r *Request) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}

// DecodeRequest parses a request packet.
func DecodeRequest(b []byte) (*Request, error) {
	if len(b) != RequestSize {
		return nil, &TruncatedPacketError{Expected: RequestSize, Actual: len(b)}
	}
	if b[reqOffSync] != Sync {
		return nil, &MalformedFieldError{Field: "sync", Value: b[reqOffSync]}
	}
	switch b[reqOffFunction] {
	case FnSetParams:
		if _, ok := chamberParams[b[reqOffMode]]; !ok {
			return nil, &MalformedFieldError{Field: "mode", Value: b[reqOffMode]}
		}
	case FnEcho:
	default:
		return nil, &MalformedFieldError{Field: "function code", Value: b[reqOffFunction]}
	}
	return &Request{
		Function:       b[reqOffFunction],
		Mode:           b[reqOffMode],
		LowerRateLimit: b[reqOffLowerRate],
		UpperRateLimit: b[reqOffUpperRate],
		Amplitude:      getFloat32(b[reqOffAmplitude:]),
		PulseWidth:     getFloat32(b[reqOffPulseWidth:]),
		Sensitivity:    getFloat32(b[reqOffSensitivity:]),
		MaxSensorRate:  getFloat32(b[reqOffMaxSensorRate:]),
		Refractory:     binary.LittleEndian.Uint16(b[reqOffRefractory:]),
		ReactionTime:   binary.LittleEndian.Uint16(b[reqOffReactionTime:]),
		ResponseFactor: b[reqOffResponseFactor],
		RateSmoothing:  b[reqOffRateSmoothing],
	}, nil
}

func putFloat32(b []byte, v float32) {
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
}

func getFloat32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
