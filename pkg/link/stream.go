package link

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/dcm.go/pkg/codec"
)

// stream owns an open port and pumps received bytes in the background.
type stream struct {
	portID string
	port   io.ReadWriteCloser
	dataCh chan []byte
	errCh  chan error
	done   chan struct{}

	closeOnce sync.Once
	closeErr  error
}

func newStream(portID string, port io.ReadWriteCloser) *stream {
	s := &stream{
		portID: portID,
		port:   port,
		dataCh: make(chan []byte, 16),
		errCh:  make(chan error, 1),
		done:   make(chan struct{}),
	}
	go s.readLoop()
	return s
}

func (s *stream) readLoop() {
	buf := make([]byte, 64)
	for {
		n, err := s.port.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.dataCh <- chunk:
			case <-s.done:
				return
			}
		}
		if err != nil {
			if os.IsTimeout(err) {
				continue
			}
			select {
			case s.errCh <- err:
			case <-s.done:
			}
			return
		}
	}
}

// discard drops bytes received outside an exchange, e.g. late replies.
func (s *stream) discard() {
	for {
		select {
		case chunk := <-s.dataCh:
			glog.V(2).Infof("link: discard % x", chunk)
		default:
			return
		}
	}
}

// exchange writes req and collects exactly codec.ResponseSize bytes.
// The received bytes are returned with the error for diagnosis.
func (s *stream) exchange(ctx context.Context, req []byte, timeout time.Duration) ([]byte, error) {
	s.discard()
	glog.V(2).Infof("link: sending % x", req)
	if _, err := s.port.Write(req); err != nil {
		return nil, &ConnectionError{Port: s.portID, Op: "write", Err: err}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	resp := make([]byte, 0, codec.ResponseSize)
	for len(resp) < codec.ResponseSize {
		select {
		case chunk := <-s.dataCh:
			resp = append(resp, chunk...)
		case err := <-s.errCh:
			return resp, &ConnectionError{Port: s.portID, Op: "read", Err: err}
		case <-s.done:
			return resp, &ConnectionError{Port: s.portID, Op: "read", Err: ErrClosed}
		case <-timer.C:
			return resp, &ResponseTimeoutError{BytesReceived: len(resp), Timeout: timeout}
		case <-ctx.Done():
			return resp, ctx.Err()
		}
	}
	if len(resp) > codec.ResponseSize {
		glog.V(2).Infof("link: discard % x", resp[codec.ResponseSize:])
		resp = resp[:codec.ResponseSize]
	}
	glog.V(2).Infof("link: received % x", resp)
	return resp, nil
}

func (s *stream) close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = s.port.Close()
	})
	return s.closeErr
}
