// File: proxy/forward.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// C2: forwarder. Moves exactly one multipart message from one socket to
// its linked partner, frame by frame. Holds a single frame buffer at a
// time; never accumulates the message.

package proxy

// forward drains one complete multipart message from `from` to `to`,
// duplicating each frame to capture (if configured) and running hook (if
// non-nil) before the send. marker is n (1-based) while more frames
// follow, 0 on the terminal frame.
func (p *Proxy) forward(from, to Socket, hook Hook, hookData any) error {
	for n := 1; ; n++ {
		frame, more, err := from.Recv()
		if err != nil {
			return NewError(ErrCodeTransport, "recv failed").WithCause(err)
		}

		if err := p.captureFrame(frame, more); err != nil {
			return err
		}

		marker := Marker(n)
		if !more {
			marker = 0
		}

		if hook != nil {
			if err := hook(p, from, to, p.capture, &frame, marker, hookData); err != nil {
				p.bump(metricsSink.IncHookRejects)
				return NewError(ErrCodeHookReject, "hook rejected frame").WithCause(err).WithContext("marker", int(marker))
			}
		}

		if err := to.Send(frame, more); err != nil {
			return NewError(ErrCodeTransport, "send failed").WithCause(err)
		}

		p.bump(metricsSink.IncForwardedFrames)
		if !more {
			p.bump(metricsSink.IncForwardedMessages)
			return nil
		}
	}
}

// captureFrame duplicates frame to the capture sink, if one is
// configured. A capture failure aborts the whole forward.
func (p *Proxy) captureFrame(frame Frame, more bool) error {
	if p.capture == nil {
		return nil
	}
	dup := Frame{Data: append([]byte(nil), frame.Data...)}
	if err := p.capture.Send(dup, more); err != nil {
		return NewError(ErrCodeTransport, "capture send failed").WithCause(err)
	}
	return nil
}
