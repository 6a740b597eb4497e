package proxy

import (
	"testing"

	"github.com/momentics/msgproxy/internal/testsocket"
)

func TestPollBoundedModeIdleOnTimeout(t *testing.T) {
	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		return 0, nil
	}
	p, err := New(Config{
		Frontends: []Socket{testsocket.New(1)},
		Backends:  []Socket{testsocket.New(2)},
		TimeoutMs: 0,
		Poller:    poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 0 {
		t.Fatalf("Poll() = (%d, %v), want (0, nil)", n, err)
	}
}

func TestPollBoundedModeOpenEndpointReady(t *testing.T) {
	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[0].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		OpenEndpoints: []Socket{testsocket.New(1)},
		TimeoutMs:     0,
		Poller:        poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 1 {
		t.Fatalf("Poll() = (%d, %v), want (1, nil)", n, err)
	}
}

func TestPollBoundedModeSecondOpenEndpointReady(t *testing.T) {
	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[1].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		OpenEndpoints: []Socket{testsocket.New(1), testsocket.New(2)},
		TimeoutMs:     0,
		Poller:        poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 2 {
		t.Fatalf("Poll() = (%d, %v), want (2, nil) for the second open endpoint", n, err)
	}
}

func TestPollBlockingModeReturnsOneRegardlessOfIndex(t *testing.T) {
	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[1].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		OpenEndpoints: []Socket{testsocket.New(1), testsocket.New(2)},
		Frontends:     []Socket{testsocket.New(3)},
		Backends:      []Socket{testsocket.New(4)},
		TimeoutMs:     -1,
		Poller:        poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 1 {
		t.Fatalf("Poll() = (%d, %v), want (1, nil) in blocking mode", n, err)
	}
}

func TestPollForwardsReadyPair(t *testing.T) {
	front := testsocket.New(1)
	front.Frames = []testsocket.Frame{{Data: []byte("hi"), More: false}}
	back := testsocket.New(2)

	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[0].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		Frontends: []Socket{front},
		Backends:  []Socket{back},
		TimeoutMs: 0,
		Poller:    poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 0 {
		t.Fatalf("Poll() = (%d, %v), want (0, nil)", n, err)
	}
	if len(back.SendCalls) != 1 || string(back.SendCalls[0].Data) != "hi" {
		t.Fatalf("back.SendCalls = %+v, want one frame %q", back.SendCalls, "hi")
	}
}

func TestPollPausedStateSkipsForwarding(t *testing.T) {
	front := testsocket.New(1)
	front.Frames = []testsocket.Frame{{Data: []byte("hi"), More: false}}
	back := testsocket.New(2)

	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[0].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		Frontends: []Socket{front},
		Backends:  []Socket{back},
		TimeoutMs: 0,
		Poller:    poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	p.state = StatePaused

	if _, err := p.Poll(); err != nil {
		t.Fatal(err)
	}
	if len(back.SendCalls) != 0 {
		t.Errorf("expected no forwarding while paused, got %d Send calls", len(back.SendCalls))
	}
}

func TestPollHonorsControlTerminateInBlockingMode(t *testing.T) {
	ctl := testsocket.New(3)
	ctl.Frames = []testsocket.Frame{{Data: []byte("TERMINATE")}}

	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		items[len(items)-1].Revents = EventReadable
		return 1, nil
	}
	p, err := New(Config{
		Frontends: []Socket{testsocket.New(1)},
		Backends:  []Socket{testsocket.New(2)},
		Control:   ctl,
		TimeoutMs: -1,
		Poller:    poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err != nil || n != 0 {
		t.Fatalf("Poll() = (%d, %v), want (0, nil) once TERMINATE is processed", n, err)
	}
	if p.state != StateTerminated {
		t.Errorf("state = %v, want StateTerminated", p.state)
	}
}

func TestPollPropagatesPollerError(t *testing.T) {
	poller := testsocket.NewPoller()
	poller.PollFunc = func(items []PollItem, timeoutMs int) (int, error) {
		return -1, NewError(ErrCodeTransport, "poll failed")
	}
	p, err := New(Config{
		Frontends: []Socket{testsocket.New(1)},
		Backends:  []Socket{testsocket.New(2)},
		TimeoutMs: 0,
		Poller:    poller,
	})
	if err != nil {
		t.Fatal(err)
	}
	n, err := p.Poll()
	if err == nil || n != -1 {
		t.Fatalf("Poll() = (%d, %v), want (-1, non-nil)", n, err)
	}
}
