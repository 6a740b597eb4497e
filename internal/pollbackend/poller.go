// File: internal/pollbackend/poller.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package pollbackend provides proxy.Poller implementations that wait on
// real file descriptors: register fds, block in one epoll_wait, and
// translate readiness back into the proxy core's whole-table revents
// contract ("Poll entry").
package pollbackend

import "github.com/momentics/msgproxy/proxy"

// EventMask/PollItem are proxy.EventMask/proxy.PollItem
// re-exported under short names for readability within this package.
type (
	EventMask = proxy.EventMask
	PollItem  = proxy.PollItem
)

const (
	EventReadable = proxy.EventReadable
	EventWritable = proxy.EventWritable
)
