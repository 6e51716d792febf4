package sh

import (
	"context"
	"errors"
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/dcm.go/pkg/env"
	"github.com/robotalks/dcm.go/pkg/link"
	"github.com/robotalks/dcm.go/pkg/pacing"
	"github.com/robotalks/dcm.go/pkg/report"
	"github.com/robotalks/dcm.go/pkg/sim"
)

type recordTransport struct {
	topics []string
}

func (t *recordTransport) Publish(topic string, payload []byte) error {
	t.topics = append(t.topics, topic)
	return nil
}

func newSimShell(t *testing.T) (*Shell, *sim.Device) {
	dev := sim.NewDevice()
	session := link.NewSession(link.OpenFunc(func(ctx context.Context, portID string) (io.ReadWriteCloser, error) {
		client, server := net.Pipe()
		go dev.Serve(server)
		return client, nil
	}))
	s := NewWithSession(&env.Config{Operator: "nurse1"}, session)
	s.ListPorts = func() ([]string, error) { return []string{"COM3"}, nil }
	return s, dev
}

func TestShellApply(t *testing.T) {
	s, dev := newSimShell(t)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Apply(ctx)
	require.Equal(t, link.ErrNotConnected, err)

	require.NoError(t, s.Connect(ctx, "sim"))
	require.NoError(t, s.SetMode("vvi"))
	_, err = s.SetParam("VRP (ms)", "300")
	require.NoError(t, err)
	_, err = s.SetParam("lower rate limit", "72")
	require.NoError(t, err)

	resp, err := s.Apply(ctx)
	require.NoError(t, err)
	require.Equal(t, byte('V'), resp.Mode)
	require.Equal(t, uint8(72), resp.LowerRateLimit)
	require.Equal(t, uint16(300), resp.VRP)
	require.Equal(t, uint16(300), dev.Status().VRP)
	require.Contains(t, resp.String(), "LRL=72")

	status, err := s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, link.StatusConnected, status)

	require.NoError(t, s.Disconnect())
	status, err = s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, link.StatusUnreachable, status)
}

func TestShellSetParam(t *testing.T) {
	s, _ := newSimShell(t)

	_, err := s.SetParam("Bogus", "1")
	var unknown *pacing.UnknownParamError
	require.True(t, errors.As(err, &unknown))

	_, err = s.SetParam("VRP", "abc")
	require.Error(t, err)

	_, err = s.SetParam("VRP", "20")
	var outOfRange *pacing.OutOfRangeError
	require.True(t, errors.As(err, &outOfRange))
	require.Equal(t, 320.0, s.Params[pacing.VRP])

	p, err := s.SetParam("Atrial Amplitude", "4")
	require.NoError(t, err)
	require.Equal(t, pacing.AtrialAmplitude, p)
	require.Equal(t, 4.0, s.Params[pacing.AtrialAmplitude])

	var unknownMode *pacing.UnknownModeError
	require.True(t, errors.As(s.SetMode("DDD"), &unknownMode))
	require.Equal(t, pacing.VOO, s.Mode)
}

func TestShellPendingParams(t *testing.T) {
	s, _ := newSimShell(t)
	require.NoError(t, s.SetMode("AAI"))
	entries := s.PendingParams()
	require.Len(t, entries, len(pacing.AAI.Params()))
	require.Equal(t, "Lower Rate Limit", entries[0].Name)
	require.Equal(t, 60.0, entries[0].Value)
	require.Equal(t, 30.0, entries[0].Min)
	require.Equal(t, 175.0, entries[0].Max)
}

func TestShellReports(t *testing.T) {
	s, _ := newSimShell(t)
	transport := &recordTransport{}
	s.EnableReports(&report.Publisher{Transport: transport, DCMID: "dcm1"})
	defer s.Close()

	ctx := context.Background()
	require.NoError(t, s.Connect(ctx, "sim"))
	_, err := s.Apply(ctx)
	require.NoError(t, err)
	_, err = s.Check(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"dcm/dcm1/report", "dcm/dcm1/report"}, transport.topics)
}
