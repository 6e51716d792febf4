package codec

import (
	"encoding/binary"
	"fmt"
)

// ResponseSize is the length of a response packet.
const ResponseSize = 45

// response field offsets
const (
	respOffMode                  = 0
	respOffLowerRate             = 1
	respOffUpperRate             = 2
	respOffAtrialAmplitude       = 3
	respOffVentricularAmplitude  = 7
	respOffAtrialPulseWidth      = 11
	respOffVentricularPulseWidth = 15
	respOffVRP                   = 19
	respOffARP                   = 21
	respOffHysteresis            = 23
	respOffRateSmoothing         = 24
	respOffActivityThreshold     = 25
	respOffReactionTime          = 26
	respOffResponseFactor        = 27
	respOffRecoveryTime          = 28
	respOffVentricularEGM        = 29
	respOffAtrialEGM             = 31
)

// Response is the status reported by the device.
type Response struct {
	Mode                  byte    `json:"mode"`
	LowerRateLimit        uint8   `json:"lower_rate_limit"`
	UpperRateLimit        uint8   `json:"upper_rate_limit"`
	AtrialAmplitude       float32 `json:"atrial_amplitude"`
	VentricularAmplitude  float32 `json:"ventricular_amplitude"`
	AtrialPulseWidth      float32 `json:"atrial_pulse_width"`
	VentricularPulseWidth float32 `json:"ventricular_pulse_width"`
	VRP                   uint16  `json:"vrp"`
	ARP                   uint16  `json:"arp"`
	Hysteresis            uint8   `json:"hysteresis"`
	RateSmoothing         uint8   `json:"rate_smoothing"`
	ActivityThreshold     uint8   `json:"activity_threshold"`
	ReactionTime          uint8   `json:"reaction_time"`
	ResponseFactor        uint8   `json:"response_factor"`
	RecoveryTime          uint8   `json:"recovery_time"`
	VentricularEGM        uint16  `json:"ventricular_egm"`
	AtrialEGM             uint16  `json:"atrial_egm"`
}

// Decode parses a response packet. Only a packet of exactly
// ResponseSize bytes is accepted.
func Decode(b []byte) (*Response, error) {
	if len(b) != ResponseSize {
		return nil, &TruncatedPacketError{Expected: ResponseSize, Actual: len(b)}
	}
	return &Response{
		Mode:                  b[respOffMode],
		LowerRateLimit:        b[respOffLowerRate],
		UpperRateLimit:        b[respOffUpperRate],
		AtrialAmplitude:       getFloat32(b[respOffAtrialAmplitude:]),
		VentricularAmplitude:  getFloat32(b[respOffVentricularAmplitude:]),
		AtrialPulseWidth:      getFloat32(b[respOffAtrialPulseWidth:]),
		VentricularPulseWidth: getFloat32(b[respOffVentricularPulseWidth:]),
		VRP:                   binary.LittleEndian.Uint16(b[respOffVRP:]),
		ARP:                   binary.LittleEndian.Uint16(b[respOffARP:]),
		Hysteresis:            b[respOffHysteresis],
		RateSmoothing:         b[respOffRateSmoothing],
		ActivityThreshold:     b[respOffActivityThreshold],
		ReactionTime:          b[respOffReactionTime],
		ResponseFactor:        b[respOffResponseFactor],
		RecoveryTime:          b[respOffRecoveryTime],
		VentricularEGM:        binary.LittleEndian.Uint16(b[respOffVentricularEGM:]),
		AtrialEGM:             binary.LittleEndian.Uint16(b[respOffAtrialEGM:]),
	}, nil
}

// Bytes encodes the response packet. Reserved bytes are zero.
func (r *Response) Bytes() []byte {
	b := make([]byte, ResponseSize)
	b[respOffMode] = r.Mode
	b[respOffLowerRate] = r.LowerRateLimit
	b[respOffUpperRate] = r.UpperRateLimit
	putFloat32(b[respOffAtrialAmplitude:], r.AtrialAmplitude)
	putFloat32(b[respOffVentricularAmplitude:], r.VentricularAmplitude)
	putFloat32(b[respOffAtrialPulseWidth:], r.AtrialPulseWidth)
	putFloat32(b[respOffVentricularPulseWidth:], r.VentricularPulseWidth)
	binary.LittleEndian.PutUint16(b[respOffVRP:], r.VRP)
	binary.LittleEndian.PutUint16(b[respOffARP:], r.ARP)
	b[respOffHysteresis] = r.Hysteresis
	b[respOffRateSmoothing] = r.RateSmoothing
	b[respOffActivityThreshold] = r.ActivityThreshold
	b[respOffReactionTime] = r.ReactionTime
	b[respOffResponseFactor] = r.ResponseFactor
	b[respOffRecoveryTime] = r.RecoveryTime
	binary.LittleEndian.PutUint16(b[respOffVentricularEGM:], r.VentricularEGM)
	binary.LittleEndian.PutUint16(b[respOffAtrialEGM:], r.AtrialEGM)
	return b
}

// String formats the status for display.
func (r *Response) String() string {
	return fmt.Sprintf("mode=%c LRL=%d URL=%d A=%.2fV/%.2fms V=%.2fV/%.2fms ARP=%d VRP=%d "+
		"RS=%d%% AT=%d RxT=%ds RF=%d RcT=%dmin EGM(A/V)=%d/%d",
		r.Mode, r.LowerRateLimit, r.UpperRateLimit,
		r.AtrialAmplitude, r.AtrialPulseWidth, r.VentricularAmplitude, r.VentricularPulseWidth,
		r.ARP, r.VRP, r.RateSmoothing, r.ActivityThreshold, r.ReactionTime,
		r.ResponseFactor, r.RecoveryTime, r.AtrialEGM, r.VentricularEGM)
}
