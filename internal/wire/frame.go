// File: internal/wire/frame.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package wire implements the multipart frame codec transport/tcp reads
// and writes over net.Conn: a length-prefixed, size-capped frame with a
// continuation flag and a payload, nothing else — no opcode, no masking.

package wire

import (
	"encoding/binary"
	"errors"
	"io"
)

// MaxFramePayload caps a single frame's payload to guard against
// resource-exhausting frames.
const MaxFramePayload = 1 << 20 // 1 MiB

// headerLen is 1 continuation-flag byte + 4 big-endian length bytes.
const headerLen = 5

var (
	// ErrFrameTooLarge is returned by WriteFrame/ReadFrame when a
	// payload would exceed MaxFramePayload.
	ErrFrameTooLarge = errors.New("wire: frame payload exceeds maximum allowed size")
)

// WriteFrame writes one frame to w as [1-byte more-flag][4-byte
// big-endian length][payload].
func WriteFrame(w io.Writer, payload []byte, more bool) error {
	if len(payload) > MaxFramePayload {
		return ErrFrameTooLarge
	}
	var hdr [headerLen]byte
	if more {
		hdr[0] = 1
	}
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(payload)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(payload) == 0 {
		return nil
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one frame from r, returning its payload and more-flag.
func ReadFrame(r io.Reader) (payload []byte, more bool, err error) {
	var hdr [headerLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, false, err
	}
	length := binary.BigEndian.Uint32(hdr[1:])
	if length > MaxFramePayload {
		return nil, false, ErrFrameTooLarge
	}
	payload = make([]byte, length)
	if length > 0 {
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, false, err
		}
	}
	return payload, hdr[0] != 0, nil
}
