// File: proxy/mask.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// C5: event-mask API. Lets the caller rewrite a single socket's
// polled-event mask between iterations.

package proxy

// SetSocketEventsMask replaces (does not OR) the polled-event mask of the
// 1-based indexed poll-table entry. index must satisfy
// 1 <= index <= qt_sockets (the control socket, if any, is not
// addressable through this API). Takes effect on the next Poll call.
func (p *Proxy) SetSocketEventsMask(index int, mask EventMask) error {
	if index < 1 || index > p.qtSockets {
		return NewError(ErrCodeInvalidArgument, "socket index out of range").
			WithContext("index", index).WithContext("qt_sockets", p.qtSockets)
	}
	p.entries[index-1].eventsMask = mask
	return nil
}
