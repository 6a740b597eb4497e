// File: proxy/control.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// C3: control interpreter. Applies a single-frame PAUSE/RESUME/TERMINATE
// command read from the control socket.

package proxy

import (
	"bytes"
	"fmt"
)

var (
	cmdPause     = []byte("PAUSE")
	cmdResume    = []byte("RESUME")
	cmdTerminate = []byte("TERMINATE")
)

// runControl reads exactly one frame from the control socket and applies
// the state transition it names. A malformed frame (continuation set, or
// an unrecognized payload) is a fatal programmer error, not a runtime
// condition.
func (p *Proxy) runControl() error {
	frame, more, err := p.control.Recv()
	if err != nil {
		return NewError(ErrCodeTransport, "control recv failed").WithCause(err)
	}
	if more {
		panic("proxy: control frame must not have a continuation")
	}

	if err := p.captureFrame(frame, false); err != nil {
		return err
	}

	switch {
	case bytes.Equal(frame.Data, cmdPause):
		p.state = StatePaused
	case bytes.Equal(frame.Data, cmdResume):
		p.state = StateActive
	case bytes.Equal(frame.Data, cmdTerminate):
		p.state = StateTerminated
	default:
		panic(fmt.Sprintf("proxy: invalid command sent to control socket: %q", frame.Data))
	}

	p.bump(metricsSink.IncControlCommands)
	return nil
}
