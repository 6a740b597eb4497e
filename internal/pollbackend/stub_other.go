//go:build !linux
// +build !linux

// File: internal/pollbackend/stub_other.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Non-Linux platforms get no Poller here. Windows' IOCP is a
// completion-based model, not a readiness-based one: it cannot implement
// this package's Poll(items, timeoutMs) contract without faking
// readiness from completions, which would observably diverge from the
// epoll backend's semantics. An explicit unsupported error is returned
// rather than shipping a half-working shim.

package pollbackend

import "errors"

// ErrUnsupportedPlatform is returned by New on platforms with no native
// readiness-poll backend wired up.
var ErrUnsupportedPlatform = errors.New("pollbackend: no poller backend for this platform")

// EpollPoller is not available outside Linux; New always fails.
type EpollPoller struct{}

// New always returns ErrUnsupportedPlatform outside Linux.
func New() (*EpollPoller, error) {
	return nil, ErrUnsupportedPlatform
}

// Poll is unreachable: New never succeeds on this platform.
func (p *EpollPoller) Poll(items []PollItem, timeoutMs int) (int, error) {
	return -1, ErrUnsupportedPlatform
}

// Close is unreachable: New never succeeds on this platform.
func (p *EpollPoller) Close() error {
	return ErrUnsupportedPlatform
}
