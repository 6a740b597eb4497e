package inprocsock_test

import (
	"testing"

	"github.com/momentics/msgproxy/proxy"
	"github.com/momentics/msgproxy/transport/inprocsock"
)

func TestPairRoundTrip(t *testing.T) {
	a, b, err := inprocsock.NewPair()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	defer b.Close()

	if err := a.Send(proxy.Frame{Data: []byte("part1")}, true); err != nil {
		t.Fatal(err)
	}
	if err := a.Send(proxy.Frame{Data: []byte("part2")}, false); err != nil {
		t.Fatal(err)
	}

	f, more, err := b.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if string(f.Data) != "part1" || !more {
		t.Errorf("first recv = %q more=%v, want part1/true", f.Data, more)
	}

	f, more, err = b.Recv()
	if err != nil {
		t.Fatal(err)
	}
	if string(f.Data) != "part2" || more {
		t.Errorf("second recv = %q more=%v, want part2/false", f.Data, more)
	}
}

func TestRecvEmptyWouldBlock(t *testing.T) {
	a, b, err := inprocsock.NewPair()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	defer b.Close()

	if _, _, err := b.Recv(); err == nil {
		t.Fatal("expected error on empty inbox recv, got nil")
	}
}

func TestSendAfterCloseFails(t *testing.T) {
	a, b, err := inprocsock.NewPair()
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatal(err)
	}
	if err := a.Send(proxy.Frame{Data: []byte("x")}, false); err != inprocsock.ErrClosed {
		t.Fatalf("err = %v, want ErrClosed", err)
	}
}

func TestDescriptorDistinctPerSocket(t *testing.T) {
	a, b, err := inprocsock.NewPair()
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	defer b.Close()

	if a.Descriptor() == b.Descriptor() {
		t.Errorf("expected distinct descriptors for paired sockets")
	}
}
