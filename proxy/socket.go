// File: proxy/socket.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The minimal message-socket capability surface the proxy core consumes.
// Concrete transports (transport/tcp, transport/inprocsock) implement
// Socket; the core never constructs, dials, binds, or closes one.

package proxy

// Frame is a single atomic unit of transfer: bytes plus, carried
// out-of-band by Socket.Recv's second return value, a continuation flag.
type Frame struct {
	Data []byte
}

// Socket is the capability surface borrowed from the underlying
// message-socket library. The proxy never owns or closes a Socket.
type Socket interface {
	// Send transmits one frame. more indicates more frames of the same
	// multipart message will follow.
	Send(f Frame, more bool) error

	// Recv receives one frame. more reports whether the sender flagged
	// additional frames as part of the same multipart message.
	Recv() (f Frame, more bool, err error)

	// Descriptor returns a stable readiness handle a Poller can watch.
	// Transports with no native file descriptor (e.g. in-process queues)
	// back this with a self-pipe so they can sit in the same poll table
	// as real sockets.
	Descriptor() uintptr
}

// EventMask is a bitset of pollable readiness conditions.
type EventMask uint8

const (
	// EventReadable is set when a socket has at least one frame ready to
	// Recv. This is the only interest mask the proxy core itself ever
	// requests; EventWritable exists for callers driving SetSocketEventsMask
	// directly.
	EventReadable EventMask = 1 << iota
	EventWritable
)

// PollItem is one entry of the table handed to a Poller: a socket's
// descriptor, the events it's interested in, and the events observed
// ready after Poll returns.
type PollItem struct {
	FD      uintptr
	Events  EventMask
	Revents EventMask
}

// Poller is the external collaborator performing the actual blocking
// wait, analogous to zmq_poll/poll(2). Implementations live under
// internal/pollbackend.
type Poller interface {
	// Poll blocks until at least one item is ready, timeoutMs elapses, or
	// an error occurs. timeoutMs < 0 blocks indefinitely; timeoutMs == 0
	// returns immediately. Ready items have Revents populated in place.
	// Returns the count of ready items, or a negative count with err set.
	Poll(items []PollItem, timeoutMs int) (int, error)
}
