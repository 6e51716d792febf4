package sim

import (
	"bufio"
	"io"
	"math"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/dcm.go/pkg/codec"
)

// electrogram sample scale, 12-bit ADC centered at baseline.
const (
	egmBaseline      = 2048
	egmCountsPerVolt = 400
)

// Device simulates a pacemaker answering DCM requests.
type Device struct {
	// Clock provides time for electrogram samples.
	Clock func() time.Time
	// ReplyDelay delays every response.
	ReplyDelay time.Duration

	lock   sync.Mutex
	status codec.Response
	last   *codec.Request
	start  time.Time
}

// NewDevice creates a Device with power-on settings (VOO at 60 ppm).
func NewDevice() *Device {
	return &Device{
		Clock: time.Now,
		status: codec.Response{
			Mode:                  'V',
			LowerRateLimit:        60,
			UpperRateLimit:        120,
			AtrialAmplitude:       3.5,
			VentricularAmplitude:  3.5,
			AtrialPulseWidth:      0.4,
			VentricularPulseWidth: 0.4,
			VRP:                   320,
			ARP:                   250,
			RateSmoothing:         codec.DefaultRateSmoothing,
			ActivityThreshold:     3,
			ReactionTime:          30,
			ResponseFactor:        8,
			RecoveryTime:          5,
		},
	}
}

// Status returns the current programmed status.
func (d *Device) Status() codec.Response {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.status
}

// LastRequest returns the last set-parameters request applied.
func (d *Device) LastRequest() *codec.Request {
	d.lock.Lock()
	defer d.lock.Unlock()
	return d.last
}

// Handle applies a request and builds the response.
func (d *Device) Handle(req *codec.Request) *codec.Response {
	d.lock.Lock()
	defer d.lock.Unlock()
	now := d.Clock()
	if d.start.IsZero() {
		d.start = now
	}
	if req.Function == codec.FnSetParams {
		d.apply(req)
	}
	resp := d.status
	elapsed := now.Sub(d.start)
	resp.AtrialEGM, resp.VentricularEGM = egmBaseline, egmBaseline
	switch resp.Mode {
	case 'A':
		resp.AtrialEGM = egmSample(elapsed, resp.LowerRateLimit, resp.AtrialAmplitude, resp.AtrialPulseWidth)
	case 'V':
		resp.VentricularEGM = egmSample(elapsed, resp.LowerRateLimit, resp.VentricularAmplitude, resp.VentricularPulseWidth)
	}
	return &resp
}

func (d *Device) apply(req *codec.Request) {
	r := *req
	d.last = &r
	s := &d.status
	s.Mode = req.Mode
	s.LowerRateLimit, s.UpperRateLimit = req.LowerRateLimit, req.UpperRateLimit
	if req.Mode == 'A' {
		s.AtrialAmplitude, s.AtrialPulseWidth, s.ARP = req.Amplitude, req.PulseWidth, req.Refractory
	} else {
		s.VentricularAmplitude, s.VentricularPulseWidth, s.VRP = req.Amplitude, req.PulseWidth, req.Refractory
	}
	s.RateSmoothing = req.RateSmoothing
	s.ResponseFactor = req.ResponseFactor
	if req.ReactionTime > math.MaxUint8 {
		s.ReactionTime = math.MaxUint8
	} else {
		s.ReactionTime = uint8(req.ReactionTime)
	}
	glog.Infof("sim: programmed %c LRL=%d URL=%d amp=%.2fV width=%.2fms",
		req.Mode, req.LowerRateLimit, req.UpperRateLimit, req.Amplitude, req.PulseWidth)
}

// HandlePacket decodes a request packet and encodes the response.
func (d *Device) HandlePacket(b []byte) ([]byte, error) {
	req, err := codec.DecodeRequest(b)
	if err != nil {
		return nil, err
	}
	return d.Handle(req).Bytes(), nil
}

// Serve answers requests from rw until reading fails. Bytes before a
// sync byte are skipped and malformed frames are dropped.
func (d *Device) Serve(rw io.ReadWriter) error {
	r := bufio.NewReader(rw)
	frame := make([]byte, codec.RequestSize)
	for {
		b, err := r.ReadByte()
		if err != nil {
			return err
		}
		if b != codec.Sync {
			glog.V(2).Infof("sim: skip %02x", b)
			continue
		}
		frame[0] = b
		if _, err = io.ReadFull(r, frame[1:]); err != nil {
			return err
		}
		resp, err := d.HandlePacket(frame)
		if err != nil {
			glog.Warningf("sim: drop frame % x: %v", frame, err)
			continue
		}
		if d.ReplyDelay > 0 {
			time.Sleep(d.ReplyDelay)
		}
		if _, err = rw.Write(resp); err != nil {
			return err
		}
	}
}

// egmSample simulates a paced chamber: a pulse at the start of every
// cycle followed by a smaller repolarization wave.
func egmSample(elapsed time.Duration, rate uint8, amplitude, width float32) uint16 {
	if rate == 0 || amplitude <= 0 {
		return egmBaseline
	}
	period := time.Minute / time.Duration(rate)
	phase := elapsed % period
	if phase < time.Duration(float64(width)*float64(time.Millisecond)) {
		return egmBaseline + uint16(amplitude*egmCountsPerVolt)
	}
	wave := math.Sin(math.Pi * float64(phase) / float64(period))
	return egmBaseline + uint16(float64(amplitude)*egmCountsPerVolt/8*wave)
}
