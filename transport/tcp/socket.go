// File: transport/tcp/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Socket adapts a net.Conn (dialed or accepted) to proxy.Socket by
// layering the internal/wire multipart frame codec over it. Descriptor
// exposes the connection's raw file descriptor for pollbackend.EpollPoller,
// read once through syscall.Conn's RawConn.Control.

package tcp

import (
	"fmt"
	"net"
	"syscall"

	"github.com/momentics/msgproxy/internal/wire"
	"github.com/momentics/msgproxy/proxy"
)

// Socket is a proxy.Socket backed by a TCP (or any syscall.Conn-capable)
// net.Conn.
type Socket struct {
	conn net.Conn
	fd   uintptr
}

// New wraps conn as a framed proxy.Socket. conn must implement
// syscall.Conn (true for *net.TCPConn and *net.UnixConn) so its raw fd
// can be registered with an epoll-based Poller.
func New(conn net.Conn) (*Socket, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return nil, fmt.Errorf("tcp: connection type %T does not expose a raw fd", conn)
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("tcp: syscall conn: %w", err)
	}
	var fd uintptr
	if err := raw.Control(func(f uintptr) { fd = f }); err != nil {
		return nil, fmt.Errorf("tcp: reading raw fd: %w", err)
	}
	return &Socket{conn: conn, fd: fd}, nil
}

// Dial connects to addr and wraps the resulting connection.
func Dial(network, addr string) (*Socket, error) {
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, err
	}
	sock, err := New(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return sock, nil
}

// Send implements proxy.Socket.
func (s *Socket) Send(f proxy.Frame, more bool) error {
	return wire.WriteFrame(s.conn, f.Data, more)
}

// Recv implements proxy.Socket.
func (s *Socket) Recv() (proxy.Frame, bool, error) {
	data, more, err := wire.ReadFrame(s.conn)
	if err != nil {
		return proxy.Frame{}, false, err
	}
	return proxy.Frame{Data: data}, more, nil
}

// Descriptor implements proxy.Socket.
func (s *Socket) Descriptor() uintptr {
	return s.fd
}

// Close releases the underlying connection. The proxy core never calls
// this — callers own the socket's lifetime.
func (s *Socket) Close() error {
	return s.conn.Close()
}
