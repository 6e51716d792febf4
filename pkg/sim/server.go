package sim

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/dcm.go/pkg/framework"
)

// TCPServer exposes a Device over TCP.
type TCPServer struct {
	Device *Device
	Addr   string
}

// Name implements framework.Named.
func (s *TCPServer) Name() string {
	return "sim-tcp"
}

// Run implements framework.Runnable.
func (s *TCPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("sim: listening on tcp://%s", ln.Addr())
	return s.Serve(ctx, ln)
}

// Serve accepts connections from ln until ctx is done.
func (s *TCPServer) Serve(ctx context.Context, ln net.Listener) error {
	var conns connSet
	defer conns.closeAll()
	return fx.RunWithContextCloser(ctx, ln, func() error {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return err
			}
			conns.add(conn)
			go func() {
				defer conns.remove(conn)
				s.serveConn(conn.RemoteAddr().String(), conn)
			}()
		}
	})
}

func (s *TCPServer) serveConn(peer string, conn io.ReadWriteCloser) {
	glog.Infof("sim: %s connected", peer)
	err := s.Device.Serve(conn)
	conn.Close()
	glog.Infof("sim: %s disconnected: %v", peer, err)
}

// WebsocketServer exposes a Device over websocket binary frames.
type WebsocketServer struct {
	Device *Device
	Addr   string
}

// Name implements framework.Named.
func (s *WebsocketServer) Name() string {
	return "sim-ws"
}

// Handler returns the websocket handler.
func (s *WebsocketServer) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		conn.PayloadType = websocket.BinaryFrame
		peer := conn.Request().RemoteAddr
		glog.Infof("sim: ws %s connected", peer)
		err := s.Device.Serve(conn)
		glog.Infof("sim: ws %s disconnected: %v", peer, err)
	})
}

// Run implements framework.Runnable.
func (s *WebsocketServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	glog.Infof("sim: listening on ws://%s", ln.Addr())
	srv := &http.Server{Handler: s.Handler()}
	return fx.RunWithContextCloser(ctx, srv, func() error {
		return srv.Serve(ln)
	})
}

type connSet struct {
	lock  sync.Mutex
	conns map[net.Conn]struct{}
}

func (s *connSet) add(conn net.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	s.conns[conn] = struct{}{}
}

func (s *connSet) remove(conn net.Conn) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.conns, conn)
}

func (s *connSet) closeAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	for conn := range s.conns {
		conn.Close()
	}
}
