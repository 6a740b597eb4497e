package proxy

import (
	"errors"
	"testing"

	"github.com/momentics/msgproxy/internal/testsocket"
)

func newTestProxy(t *testing.T, capture Socket) *Proxy {
	t.Helper()
	p, err := New(Config{
		Frontends: []Socket{testsocket.New(1)},
		Backends:  []Socket{testsocket.New(2)},
		Capture:   capture,
		TimeoutMs: 0,
		Poller:    testsocket.NewPoller(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestForwardPreservesMultipartBoundaries(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{
		{Data: []byte("a"), More: true},
		{Data: []byte("b"), More: true},
		{Data: []byte("c"), More: false},
	}
	to := testsocket.New(20)

	if err := p.forward(from, to, nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(to.SendCalls) != 3 {
		t.Fatalf("got %d Send calls, want 3", len(to.SendCalls))
	}
	want := []struct {
		data string
		more bool
	}{{"a", true}, {"b", true}, {"c", false}}
	for i, w := range want {
		if string(to.SendCalls[i].Data) != w.data || to.SendCalls[i].More != w.more {
			t.Errorf("call %d = %q/%v, want %q/%v", i, to.SendCalls[i].Data, to.SendCalls[i].More, w.data, w.more)
		}
	}
}

func TestForwardDuplicatesToCapture(t *testing.T) {
	capture := testsocket.New(99)
	p := newTestProxy(t, capture)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{{Data: []byte("only"), More: false}}
	to := testsocket.New(20)

	if err := p.forward(from, to, nil, nil); err != nil {
		t.Fatal(err)
	}
	if len(capture.SendCalls) != 1 || string(capture.SendCalls[0].Data) != "only" {
		t.Fatalf("capture calls = %+v, want one frame %q", capture.SendCalls, "only")
	}
}

func TestForwardAbortsOnCaptureFailure(t *testing.T) {
	capture := testsocket.New(99)
	capture.SendFunc = func(f Frame, more bool) error { return errors.New("capture down") }
	p := newTestProxy(t, capture)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{{Data: []byte("x"), More: false}}
	to := testsocket.New(20)

	err := p.forward(from, to, nil, nil)
	if err == nil {
		t.Fatal("expected error when capture send fails")
	}
	if len(to.SendCalls) != 0 {
		t.Errorf("to.Send should not be called after a capture failure, got %d calls", len(to.SendCalls))
	}
}

func TestForwardHookMarkerSequenceMultiFrame(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{
		{Data: []byte("a"), More: true},
		{Data: []byte("b"), More: true},
		{Data: []byte("c"), More: false},
	}
	to := testsocket.New(20)

	var markers []Marker
	hook := func(p *Proxy, from, to, capture Socket, frame *Frame, marker Marker, data any) error {
		markers = append(markers, marker)
		return nil
	}

	if err := p.forward(from, to, hook, nil); err != nil {
		t.Fatal(err)
	}
	want := []Marker{1, 2, 0}
	if len(markers) != len(want) {
		t.Fatalf("markers = %v, want %v", markers, want)
	}
	for i := range want {
		if markers[i] != want[i] {
			t.Errorf("markers[%d] = %d, want %d", i, markers[i], want[i])
		}
	}
}

func TestForwardHookMarkerSingleFrameMessage(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{{Data: []byte("solo"), More: false}}
	to := testsocket.New(20)

	var markers []Marker
	hook := func(p *Proxy, from, to, capture Socket, frame *Frame, marker Marker, data any) error {
		markers = append(markers, marker)
		return nil
	}

	if err := p.forward(from, to, hook, nil); err != nil {
		t.Fatal(err)
	}
	if len(markers) != 1 || markers[0] != 0 {
		t.Fatalf("markers = %v, want single invocation with marker 0", markers)
	}
}

func TestForwardHookCanMutateFrame(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{{Data: []byte("orig"), More: false}}
	to := testsocket.New(20)

	hook := func(p *Proxy, from, to, capture Socket, frame *Frame, marker Marker, data any) error {
		frame.Data = []byte("rewritten")
		return nil
	}

	if err := p.forward(from, to, hook, nil); err != nil {
		t.Fatal(err)
	}
	if len(to.SendCalls) != 1 || string(to.SendCalls[0].Data) != "rewritten" {
		t.Fatalf("to.SendCalls = %+v, want rewritten frame", to.SendCalls)
	}
}

func TestForwardHookRejectAbortsForward(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.Frames = []testsocket.Frame{{Data: []byte("x"), More: false}}
	to := testsocket.New(20)

	hook := func(p *Proxy, from, to, capture Socket, frame *Frame, marker Marker, data any) error {
		return errors.New("rejected")
	}

	err := p.forward(from, to, hook, nil)
	if err == nil {
		t.Fatal("expected hook rejection error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Code != ErrCodeHookReject {
		t.Fatalf("err = %v, want ErrCodeHookReject", err)
	}
	if len(to.SendCalls) != 0 {
		t.Errorf("to.Send must not be called after hook rejection, got %d calls", len(to.SendCalls))
	}
}

func TestForwardRecvFailureIsTransportError(t *testing.T) {
	p := newTestProxy(t, nil)
	from := testsocket.New(10)
	from.RecvFunc = func() (Frame, bool, error) { return Frame{}, false, errors.New("conn reset") }
	to := testsocket.New(20)

	err := p.forward(from, to, nil, nil)
	if err == nil {
		t.Fatal("expected transport error")
	}
	perr, ok := err.(*Error)
	if !ok || perr.Code != ErrCodeTransport {
		t.Fatalf("err = %v, want ErrCodeTransport", err)
	}
}
