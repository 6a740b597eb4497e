package testsocket

import "github.com/momentics/msgproxy/proxy"

// Poller is a fake proxy.Poller for proxy package tests. PollFunc, when
// set, receives the poll items by reference so it can mutate Revents
// before returning, matching how a real Poller reports readiness.
type Poller struct {
	PollFunc func(items []proxy.PollItem, timeoutMs int) (int, error)

	PollCalls int
}

// NewPoller creates a Poller with no behavior configured; Poll returns
// (0, nil) until PollFunc is set.
func NewPoller() *Poller {
	return &Poller{}
}

// Poll implements proxy.Poller.
func (p *Poller) Poll(items []proxy.PollItem, timeoutMs int) (int, error) {
	p.PollCalls++
	if p.PollFunc != nil {
		return p.PollFunc(items, timeoutMs)
	}
	return 0, nil
}

// Reset clears call tracking.
func (p *Poller) Reset() {
	p.PollCalls = 0
}
