package link

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"go.bug.st/serial"
	"golang.org/x/net/websocket"
)

// Opener opens the byte stream identified by a port identifier.
type Opener interface {
	Open(ctx context.Context, portID string) (io.ReadWriteCloser, error)
}

// OpenFunc is func form of Opener.
type OpenFunc func(ctx context.Context, portID string) (io.ReadWriteCloser, error)

// Open implements Opener.
func (f OpenFunc) Open(ctx context.Context, portID string) (io.ReadWriteCloser, error) {
	return f(ctx, portID)
}

// Default port settings.
const (
	DefaultBaudRate     = 115200
	DefaultPollInterval = 50 * time.Millisecond
	DefaultOrigin       = "http://localhost/"
)

// PortOpener opens ports by the scheme of the identifier:
//
//	COM3, /dev/ttyACM0, serial:///dev/ttyACM0  serial port
//	tcp://host:port                            TCP stream
//	ws://host:port/path                        websocket, binary frames
type PortOpener struct {
	BaudRate int
	// PollInterval is the read timeout of serial ports.
	PollInterval time.Duration
	// Origin is sent when dialing websocket.
	Origin string
}

// NewPortOpener creates a PortOpener with defaults.
func NewPortOpener(baudRate int) *PortOpener {
	if baudRate <= 0 {
		baudRate = DefaultBaudRate
	}
	return &PortOpener{
		BaudRate:     baudRate,
		PollInterval: DefaultPollInterval,
		Origin:       DefaultOrigin,
	}
}

// Open implements Opener.
func (o *PortOpener) Open(ctx context.Context, portID string) (io.ReadWriteCloser, error) {
	if !strings.Contains(portID, "://") {
		return o.openSerial(portID)
	}
	u, err := url.Parse(portID)
	if err != nil {
		return nil, fmt.Errorf("invalid port %q: %v", portID, err)
	}
	switch u.Scheme {
	case "serial":
		name := u.Path
		if name == "" {
			name = u.Host
		}
		return o.openSerial(name)
	case "tcp":
		var d net.Dialer
		return d.DialContext(ctx, "tcp", u.Host)
	case "ws", "wss":
		origin := o.Origin
		if origin == "" {
			origin = DefaultOrigin
		}
		conn, err := websocket.Dial(portID, "", origin)
		if err != nil {
			return nil, err
		}
		conn.PayloadType = websocket.BinaryFrame
		return conn, nil
	default:
		return nil, fmt.Errorf("unknown port scheme %q", u.Scheme)
	}
}

func (o *PortOpener) openSerial(name string) (io.ReadWriteCloser, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: o.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	interval := o.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if err = port.SetReadTimeout(interval); err == nil {
		err = port.ResetInputBuffer()
	}
	if err == nil {
		err = port.ResetOutputBuffer()
	}
	if err != nil {
		port.Close()
		return nil, err
	}
	return port, nil
}

// ListPorts enumerates serial ports on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
