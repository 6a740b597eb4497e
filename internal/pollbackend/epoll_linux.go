//go:build linux
// +build linux

// File: internal/pollbackend/epoll_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux epoll(7)-based proxy.Poller: the familiar epoll_create1/
// epoll_ctl/epoll_wait trio, but Poll here takes the proxy core's whole
// poll table each call (mirroring zmq_poll's contract) instead of
// dispatching to per-fd callbacks, and keeps a persistent fd
// registration across calls so repeated Poll invocations don't pay
// epoll_ctl(ADD) every time.

package pollbackend

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// EpollPoller implements proxy.Poller using a persistent Linux epoll
// instance.
type EpollPoller struct {
	epfd       int
	registered map[int]uint32 // fd -> currently-registered epoll event mask
}

// New creates an EpollPoller backed by a fresh epoll instance.
func New() (*EpollPoller, error) {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("pollbackend: epoll create: %w", err)
	}
	return &EpollPoller{epfd: epfd, registered: make(map[int]uint32)}, nil
}

// Poll implements proxy.Poller.
func (p *EpollPoller) Poll(items []PollItem, timeoutMs int) (int, error) {
	if err := p.sync(items); err != nil {
		return -1, err
	}

	timeout := timeoutMs
	if timeout < -1 {
		timeout = -1
	}

	var raw [ChainMaxEvents]unix.EpollEvent
	n, err := unix.EpollWait(p.epfd, raw[:], timeout)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return -1, fmt.Errorf("pollbackend: epoll wait: %w", err)
	}

	ready := make(map[int]uint32, n)
	for i := 0; i < n; i++ {
		ready[int(raw[i].Fd)] = raw[i].Events
	}

	count := 0
	for i := range items {
		ev, ok := ready[int(items[i].FD)]
		if !ok {
			items[i].Revents = 0
			continue
		}
		var r EventMask
		if ev&unix.EPOLLIN != 0 {
			r |= EventReadable
		}
		if ev&unix.EPOLLOUT != 0 {
			r |= EventWritable
		}
		items[i].Revents = r
		if r != 0 {
			count++
		}
	}
	return count, nil
}

// sync reconciles the epoll registration set with the fds present in
// items, adding new fds, modifying changed interest masks, and removing
// fds no longer present.
func (p *EpollPoller) sync(items []PollItem) error {
	wanted := make(map[int]uint32, len(items))
	for _, it := range items {
		wanted[int(it.FD)] = toEpollEvents(it.Events)
	}

	for fd, mask := range wanted {
		cur, known := p.registered[fd]
		switch {
		case !known:
			ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
			if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
				return fmt.Errorf("pollbackend: epoll ctl add: %w", err)
			}
		case cur != mask:
			ev := unix.EpollEvent{Events: mask, Fd: int32(fd)}
			if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
				return fmt.Errorf("pollbackend: epoll ctl mod: %w", err)
			}
		}
		p.registered[fd] = mask
	}

	for fd := range p.registered {
		if _, ok := wanted[fd]; !ok {
			_ = unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
			delete(p.registered, fd)
		}
	}
	return nil
}

func toEpollEvents(m EventMask) uint32 {
	var ev uint32
	if m&EventReadable != 0 {
		ev |= unix.EPOLLIN
	}
	if m&EventWritable != 0 {
		ev |= unix.EPOLLOUT
	}
	return ev
}

// Close releases the epoll file descriptor.
func (p *EpollPoller) Close() error {
	return unix.Close(p.epfd)
}

// ChainMaxEvents bounds the epoll_wait result buffer; matches
// proxy.ChainMax since a poll table never holds more entries than that.
const ChainMaxEvents = 32
