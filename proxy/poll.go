// File: proxy/poll.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// C4: poll loop. Blocks on the poll table via the injected Poller,
// dispatches control readiness to the control interpreter and
// paired-socket readiness to the forwarder, and reports open-endpoint
// readiness back to the caller.
//
// Internally the loop produces a typed Result ({Idle, Ready(index)})
// and only collapses it to the legacy overloaded integer at Poll's
// return, for callers that need the original wire-compatible contract.

package proxy

// ResultKind classifies what one Poll call produced.
type ResultKind int

const (
	// ResultIdle covers a timeout, a terminated loop, or an iteration
	// where only control/forwarding work happened.
	ResultIdle ResultKind = iota
	// ResultReady means the open endpoint at Index (0-based) became
	// readable.
	ResultReady
)

// Result is the typed outcome of one Poll call.
type Result struct {
	Kind  ResultKind
	Index int // 0-based open-endpoint index; valid iff Kind == ResultReady
}

// Poll runs the loop and returns the legacy overloaded integer contract
// kept for backward compatibility with a single-socket signalling API:
//
//	0        idle / timeout / terminated cleanly
//	1..N     1-based index of a ready open endpoint
//	negative error (err is non-nil)
//
// In blocking mode (TimeoutMs == -1) the loop runs until TERMINATE or an
// open endpoint becomes ready, returning 1 regardless of which endpoint.
// In bounded mode (TimeoutMs >= 0) exactly one poll cycle runs and, if an
// open endpoint is ready, its 1-based index is returned.
func (p *Proxy) Poll() (int, error) {
	res, err := p.poll()
	if err != nil {
		return -1, err
	}
	if res.Kind == ResultReady {
		if p.timeoutMs == -1 {
			return 1, nil
		}
		return res.Index + 1, nil
	}
	return 0, nil
}

func (p *Proxy) poll() (Result, error) {
	for p.state != StateTerminated {
		items := p.buildPollItems()
		n, err := p.poller.Poll(items, p.timeoutMs)
		if n < 0 {
			return Result{}, err
		}
		p.applyRevents(items)
		if n == 0 {
			// Only reachable when timeoutMs != -1: a blocking poll never
			// times out on its own.
			return Result{Kind: ResultIdle}, nil
		}

		if p.control != nil {
			controlIdx := len(p.entries) - 1
			if p.entries[controlIdx].revents&EventReadable != 0 {
				if err := p.runControl(); err != nil {
					return Result{}, err
				}
			}
		}

		for i := 0; i < p.qtSockets; i++ {
			e := &p.entries[i]
			if p.state != StateActive || e.revents&EventReadable == 0 {
				continue
			}
			if e.linkedTo == i {
				return Result{Kind: ResultReady, Index: i}, nil
			}
			if err := p.forward(e.socket, p.entries[e.linkedTo].socket, e.hookFn, e.hookData); err != nil {
				return Result{}, err
			}
		}

		if p.timeoutMs != -1 {
			return Result{Kind: ResultIdle}, nil
		}
	}
	return Result{Kind: ResultIdle}, nil
}

func (p *Proxy) buildPollItems() []PollItem {
	items := make([]PollItem, len(p.entries))
	for i := range p.entries {
		items[i] = PollItem{FD: p.entries[i].socket.Descriptor(), Events: p.entries[i].eventsMask}
	}
	return items
}

func (p *Proxy) applyRevents(items []PollItem) {
	for i := range p.entries {
		p.entries[i].revents = items[i].Revents
	}
}
