package link

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/dcm.go/pkg/codec"
	"github.com/robotalks/dcm.go/pkg/pacing"
)

// DefaultTimeout is the default time waiting for a complete response.
const DefaultTimeout = time.Second

// Exchange describes a completed request/response exchange.
type Exchange struct {
	Port     string
	Function string
	// Mode is empty for echo requests.
	Mode    string
	Request []byte
	// Response contains the bytes received, possibly incomplete.
	Response []byte
	Err      error
	Start    time.Time
	Duration time.Duration
}

// Result returns the metric label of the exchange result.
func (x *Exchange) Result() string {
	return resultOf(x.Err)
}

// ExchangeObserver is notified after every exchange.
type ExchangeObserver func(*Exchange)

// Session owns the connection to a device and runs one request/response
// exchange at a time.
type Session struct {
	Timeout time.Duration
	Opener  Opener
	Metrics *Metrics
	// Observers are called synchronously, after the session is ready for
	// the next exchange.
	Observers []ExchangeObserver

	lock   sync.Mutex
	state  State
	portID string
	stream *stream
	// connectGen identifies the latest connect attempt.
	connectGen uint64
}

// NewSession creates a disconnected session.
func NewSession(opener Opener) *Session {
	return &Session{Timeout: DefaultTimeout, Opener: opener}
}

// State gets the state.
func (s *Session) State() State {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.state
}

// Port gets the identifier of the connected port, empty if disconnected.
func (s *Session) Port() string {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.portID
}

// Connect opens the port. It's a no-op if the session is already
// connected to the same port.
func (s *Session) Connect(ctx context.Context, portID string) error {
	s.lock.Lock()
	switch s.state {
	case StateConnected:
		current := s.portID
		s.lock.Unlock()
		if current == portID {
			return nil
		}
		return &ConnectionError{Port: portID, Op: "open", Err: ErrAlreadyConnected}
	case StateConnecting, StateExchanging:
		state := s.state
		s.lock.Unlock()
		return &SessionBusyError{State: state}
	}
	s.state = StateConnecting
	s.connectGen++
	gen := s.connectGen
	s.lock.Unlock()

	port, err := s.Opener.Open(ctx, portID)

	s.lock.Lock()
	defer s.lock.Unlock()
	current := s.state == StateConnecting && s.connectGen == gen
	if err != nil {
		if current {
			s.state = StateDisconnected
		}
		glog.Warningf("open %s failed: %v", portID, err)
		return &ConnectionError{Port: portID, Op: "open", Err: err}
	}
	if !current {
		// closed while opening, possibly followed by another connect.
		port.Close()
		return &ConnectionError{Port: portID, Op: "open", Err: ErrClosed}
	}
	s.stream, s.portID, s.state = newStream(portID, port), portID, StateConnected
	glog.Infof("connected %s", portID)
	return nil
}

// Apply programs the device with the parameters applicable to mode and
// returns the status the device reports back. It doesn't retry.
func (s *Session) Apply(ctx context.Context, mode pacing.Mode, set pacing.ParameterSet) (*codec.Response, error) {
	st, err := s.begin()
	if err != nil {
		return nil, err
	}
	req, err := codec.Encode(mode, set)
	if err != nil {
		s.end(st, nil)
		return nil, err
	}
	glog.V(1).Infof("apply %s to %s", mode, s.Port())
	raw, err := s.roundTrip(ctx, st, "set_params", mode.String(), req)
	if err != nil {
		return nil, err
	}
	resp, err := codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if resp.Mode != mode.Chamber() {
		// most likely a late reply to an earlier request.
		return nil, &ResponseMismatchError{Expected: mode.Chamber(), Actual: resp.Mode}
	}
	return resp, nil
}

// CheckConnection probes the device with an echo request. A device not
// responding is reported as StatusUnreachable rather than an error.
func (s *Session) CheckConnection(ctx context.Context) (LinkStatus, error) {
	st, err := s.begin()
	if err == ErrNotConnected {
		return StatusUnreachable, nil
	}
	if err != nil {
		return StatusUnreachable, err
	}
	if _, err = s.roundTrip(ctx, st, "echo", "", codec.EchoRequest().Bytes()); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return StatusUnreachable, err
		}
		glog.V(1).Infof("link check: %v", err)
		return StatusUnreachable, nil
	}
	return StatusConnected, nil
}

// Close releases the port. It's safe to call multiple times.
func (s *Session) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.releaseLocked()
}

func (s *Session) roundTrip(ctx context.Context, st *stream, function, mode string, req []byte) ([]byte, error) {
	start := time.Now()
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	raw, err := st.exchange(ctx, req, timeout)
	elapsed := time.Since(start)
	s.Metrics.observe(function, len(req), len(raw), elapsed, err)
	s.end(st, err)
	if len(s.Observers) > 0 {
		x := &Exchange{
			Port:     st.portID,
			Function: function,
			Mode:     mode,
			Request:  req,
			Response: raw,
			Err:      err,
			Start:    start,
			Duration: elapsed,
		}
		for _, observe := range s.Observers {
			observe(x)
		}
	}
	return raw, err
}

func (s *Session) begin() (*stream, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	switch s.state {
	case StateConnected:
		s.state = StateExchanging
		return s.stream, nil
	case StateDisconnected:
		return nil, ErrNotConnected
	}
	return nil, &SessionBusyError{State: s.state}
}

func (s *Session) end(st *stream, err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.stream != st {
		// closed during the exchange.
		return
	}
	if _, ok := err.(*ConnectionError); ok {
		glog.Warningf("link %s failed: %v", s.portID, err)
		s.releaseLocked()
		return
	}
	s.state = StateConnected
}

func (s *Session) releaseLocked() (err error) {
	if st := s.stream; st != nil {
		if cerr := st.close(); cerr != nil {
			err = &ConnectionError{Port: s.portID, Op: "close", Err: cerr}
		}
		glog.Infof("disconnected %s", s.portID)
	}
	s.stream, s.portID, s.state = nil, "", StateDisconnected
	return
}
