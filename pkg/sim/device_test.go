package sim

import (
	"errors"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcm.go/pkg/codec"
	"github.com/robotalks/dcm.go/pkg/pacing"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestDevice() *Device {
	d := NewDevice()
	d.Clock = fixedClock(time.Unix(1000, 0))
	return d
}

func vviSet() pacing.ParameterSet {
	return pacing.ParameterSet{
		pacing.LowerRateLimit:         70,
		pacing.UpperRateLimit:         130,
		pacing.VentricularAmplitude:   4.5,
		pacing.VentricularPulseWidth:  0.8,
		pacing.VentricularSensitivity: 2.0,
		pacing.VRP:                    300,
		pacing.RateSmoothing:          9,
	}
}

func TestDeviceHandleSetParams(t *testing.T) {
	d := newTestDevice()
	req, err := codec.Encode(pacing.VVI, vviSet())
	require.NoError(t, err)
	b, err := d.HandlePacket(req)
	require.NoError(t, err)
	require.Len(t, b, codec.ResponseSize)

	resp, err := codec.Decode(b)
	require.NoError(t, err)
	require.Equal(t, byte('V'), resp.Mode)
	require.Equal(t, uint8(70), resp.LowerRateLimit)
	require.Equal(t, uint8(130), resp.UpperRateLimit)
	require.Equal(t, float32(4.5), resp.VentricularAmplitude)
	require.Equal(t, float32(0.8), resp.VentricularPulseWidth)
	require.Equal(t, uint16(300), resp.VRP)
	require.Equal(t, uint8(9), resp.RateSmoothing)
	require.Equal(t, uint8(codec.DefaultResponseFactor), resp.ResponseFactor)
	// untouched atrial settings
	require.Equal(t, float32(3.5), resp.AtrialAmplitude)
	require.Equal(t, uint16(250), resp.ARP)
	require.NotNil(t, d.LastRequest())
	require.Equal(t, float32(2.0), d.LastRequest().Sensitivity)
}

func TestDeviceHandleAtrial(t *testing.T) {
	d := newTestDevice()
	resp := d.Handle(&codec.Request{
		Function:       codec.FnSetParams,
		Mode:           'A',
		LowerRateLimit: 55,
		UpperRateLimit: 110,
		Amplitude:      2.5,
		PulseWidth:     1,
		Refractory:     200,
		ReactionTime:   400,
	})
	require.Equal(t, byte('A'), resp.Mode)
	require.Equal(t, float32(2.5), resp.AtrialAmplitude)
	require.Equal(t, float32(1), resp.AtrialPulseWidth)
	require.Equal(t, uint16(200), resp.ARP)
	require.Equal(t, uint16(320), resp.VRP)
	require.Equal(t, uint8(255), resp.ReactionTime)
	require.Equal(t, uint16(egmBaseline), resp.VentricularEGM)
	require.Equal(t, uint16(egmBaseline+1000), resp.AtrialEGM)
}

func TestDeviceEcho(t *testing.T) {
	d := newTestDevice()
	before := d.Status()
	resp := d.Handle(codec.EchoRequest())
	require.Equal(t, before, d.Status())
	require.Nil(t, d.LastRequest())
	require.Equal(t, byte('V'), resp.Mode)
	require.Equal(t, uint8(60), resp.LowerRateLimit)
}

func TestDeviceEGM(t *testing.T) {
	now := time.Unix(1000, 0)
	d := NewDevice()
	d.Clock = func() time.Time { return now }

	resp := d.Handle(codec.EchoRequest())
	require.Equal(t, uint16(egmBaseline+1400), resp.VentricularEGM)
	require.Equal(t, uint16(egmBaseline), resp.AtrialEGM)

	// middle of the 1s cycle at 60 ppm
	now = now.Add(500 * time.Millisecond)
	resp = d.Handle(codec.EchoRequest())
	require.Equal(t, uint16(egmBaseline+175), resp.VentricularEGM)

	// next cycle
	now = now.Add(500 * time.Millisecond)
	resp = d.Handle(codec.EchoRequest())
	require.Equal(t, uint16(egmBaseline+1400), resp.VentricularEGM)
}

func TestDeviceHandlePacketMalformed(t *testing.T) {
	d := newTestDevice()
	req, err := codec.Encode(pacing.VVI, vviSet())
	require.NoError(t, err)
	req[2] = 'X'
	_, err = d.HandlePacket(req)
	var malformed *codec.MalformedFieldError
	require.True(t, errors.As(err, &malformed))
	require.Equal(t, "mode", malformed.Field)

	_, err = d.HandlePacket(req[:10])
	var truncated *codec.TruncatedPacketError
	require.True(t, errors.As(err, &truncated))
}

func TestDeviceServe(t *testing.T) {
	d := newTestDevice()
	client, server := net.Pipe()
	errCh := make(chan error, 1)
	go func() {
		errCh <- d.Serve(server)
	}()

	bad := codec.EchoRequest().Bytes()
	bad[1] = 0x99
	good, err := codec.Encode(pacing.VVI, vviSet())
	require.NoError(t, err)

	var stream []byte
	stream = append(stream, 0x00, 0xff)
	stream = append(stream, bad...)
	stream = append(stream, good...)
	go client.Write(stream)

	b := make([]byte, codec.ResponseSize)
	_, err = io.ReadFull(client, b)
	require.NoError(t, err)
	resp, err := codec.Decode(b)
	require.NoError(t, err)
	require.Equal(t, uint8(70), resp.LowerRateLimit)

	client.Close()
	require.Error(t, <-errCh)
}
