// File: transport/inprocsock/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package inprocsock implements an in-process proxy.Socket pair,
// analogous to zmq's inproc:// transport: two Sockets sharing no network
// stack, each backed by an eapache/queue.Queue FIFO of pending frames
// and a self-pipe (os.Pipe) so a fd-based Poller — built for real
// sockets — can still observe readiness here too, letting pipeline
// stages mix in-memory and networked pairs in one poll table.
package inprocsock

import (
	"errors"
	"io"
	"os"
	"sync"

	"github.com/eapache/queue"

	"github.com/momentics/msgproxy/proxy"
)

// ErrClosed is returned by Send/Recv once the socket has been closed.
var ErrClosed = errors.New("inprocsock: socket is closed")

type frameMsg struct {
	data []byte
	more bool
}

// Socket is one end of an in-process socket pair.
type Socket struct {
	mu    sync.Mutex
	inbox *queue.Queue

	readFile  *os.File
	writeFile *os.File

	peer   *Socket
	closed bool
}

// NewPair builds two connected Sockets: frames sent on a arrive on b's
// Recv, and vice versa.
func NewPair() (a, b *Socket, err error) {
	a, err = newSocket()
	if err != nil {
		return nil, nil, err
	}
	b, err = newSocket()
	if err != nil {
		a.Close()
		return nil, nil, err
	}
	a.peer, b.peer = b, a
	return a, b, nil
}

func newSocket() (*Socket, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, err
	}
	return &Socket{
		inbox:     queue.New(),
		readFile:  r,
		writeFile: w,
	}, nil
}

// Send implements proxy.Socket: it enqueues the frame on the peer's
// inbox and signals the peer's self-pipe so a waiting Poller wakes up.
func (s *Socket) Send(f proxy.Frame, more bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.peer == nil {
		return ErrClosed
	}
	peer := s.peer
	peer.mu.Lock()
	defer peer.mu.Unlock()
	if peer.closed {
		return ErrClosed
	}
	dup := append([]byte(nil), f.Data...)
	peer.inbox.Add(frameMsg{data: dup, more: more})
	if _, err := peer.writeFile.Write([]byte{1}); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}

// Recv implements proxy.Socket.
func (s *Socket) Recv() (proxy.Frame, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inbox.Length() == 0 {
		if s.closed {
			return proxy.Frame{}, false, ErrClosed
		}
		return proxy.Frame{}, false, errors.New("inprocsock: recv would block: no frame queued")
	}
	var buf [1]byte
	if _, err := s.readFile.Read(buf[:]); err != nil && err != io.EOF {
		return proxy.Frame{}, false, err
	}
	item := s.inbox.Remove().(frameMsg)
	return proxy.Frame{Data: item.data}, item.more, nil
}

// Descriptor implements proxy.Socket via the self-pipe's read end: it
// becomes readable exactly when inbox is non-empty.
func (s *Socket) Descriptor() uintptr {
	return s.readFile.Fd()
}

// Close releases the self-pipe file descriptors. Queued, unread frames
// are dropped.
func (s *Socket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	err1 := s.readFile.Close()
	err2 := s.writeFile.Close()
	if err1 != nil {
		return err1
	}
	return err2
}
