// File: proxy/topology.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// C1: topology builder. Consumes the caller's socket vectors once at
// construction and produces the immutable poll table + link map. Build
// fully, fail fast, never mutate the shape afterwards.

package proxy

// ChainMax is the maximum number of poll table entries (open endpoints +
// paired sockets + control) a single Proxy may hold, large enough for a
// realistic multi-stage pipeline while keeping a fixed-size poll table.
const ChainMax = 32

// Config collects every construction input. Frontends and Backends are
// parallel slices of equal length; position i forms pair i. Either
// element may be nil, demoting pair i to an open endpoint on the non-nil
// side; a pair with both elements nil contributes no entry.
// OpenEndpoints is polled but never forwarded.
// Hooks, if non-nil, must be the same length as Frontends/Backends; a
// zero-value PairHooks at position i means no hook for that pair.
type Config struct {
	OpenEndpoints []Socket
	Frontends     []Socket
	Backends      []Socket
	Capture       Socket
	Control       Socket
	Hooks         []PairHooks

	// TimeoutMs is the poll timeout: -1 blocks indefinitely and requires a
	// non-degenerate first pair (strict mode); >= 0 bounds every Poll
	// call to one cycle.
	TimeoutMs int

	// Poller performs the actual blocking wait over the built poll table.
	// This is the Go analogue of the implicit zmq_poll the C source calls
	// directly; the core never constructs one itself.
	Poller Poller
}

// entry is one row of the internal poll table.
type entry struct {
	socket     Socket
	linkedTo   int // == own index iff this entry is an open endpoint
	hookFn     Hook
	hookData   any
	eventsMask EventMask
	revents    EventMask
}

// Proxy is the constructed, immutable-shape proxy core: poll table, link
// map, hook table, and run state.
type Proxy struct {
	entries   []entry
	qtSockets int // entries[0:qtSockets] are data sockets; Control (if any) is entries[qtSockets]
	control   Socket
	capture   Socket
	poller    Poller
	timeoutMs int
	state     State
	metrics   metricsSink
}

// New builds a Proxy from cfg. It performs no I/O; it only validates and
// lays out the poll table.
func New(cfg Config) (*Proxy, error) {
	if err := validateSymmetry(cfg); err != nil {
		return nil, err
	}
	if err := validateStrictMode(cfg); err != nil {
		return nil, err
	}
	if cfg.Poller == nil {
		return nil, NewError(ErrCodeInvalidArgument, "poller must not be nil")
	}

	entries := make([]entry, 0, len(cfg.OpenEndpoints)+2*len(cfg.Frontends)+1)

	for _, s := range cfg.OpenEndpoints {
		if s == nil {
			continue
		}
		idx := len(entries)
		entries = append(entries, entry{socket: s, linkedTo: idx, eventsMask: EventReadable})
	}

	for i := 0; i < len(cfg.Frontends); i++ {
		front, back := cfg.Frontends[i], cfg.Backends[i]
		var hooks PairHooks
		if i < len(cfg.Hooks) {
			hooks = cfg.Hooks[i]
		}
		switch {
		case front == nil && back == nil:
			// Degenerate empty pair; neither side set, contributes nothing.
			continue
		case back == nil:
			idx := len(entries)
			entries = append(entries, entry{socket: front, linkedTo: idx, eventsMask: EventReadable})
		case front == nil:
			idx := len(entries)
			entries = append(entries, entry{socket: back, linkedTo: idx, eventsMask: EventReadable})
		default:
			fIdx := len(entries)
			bIdx := fIdx + 1
			entries = append(entries,
				entry{socket: front, linkedTo: bIdx, hookFn: hooks.FrontToBack, hookData: hooks.Data, eventsMask: EventReadable},
				entry{socket: back, linkedTo: fIdx, hookFn: hooks.BackToFront, hookData: hooks.Data, eventsMask: EventReadable},
			)
		}
	}

	qtSockets := len(entries)
	if qtSockets == 0 {
		return nil, NewError(ErrCodeInvalidArgument, "topology requires at least one open-endpoint or forwarding socket")
	}

	qtPollItems := qtSockets
	if cfg.Control != nil {
		qtPollItems++
		entries = append(entries, entry{socket: cfg.Control, linkedTo: qtSockets, eventsMask: EventReadable})
	}

	if qtPollItems > ChainMax {
		return nil, NewError(ErrCodeCapacityExceeded, "topology exceeds CHAIN_MAX").
			WithContext("qt_poll_items", qtPollItems).WithContext("chain_max", ChainMax)
	}

	return &Proxy{
		entries:   entries,
		qtSockets: qtSockets,
		control:   cfg.Control,
		capture:   cfg.Capture,
		poller:    cfg.Poller,
		timeoutMs: cfg.TimeoutMs,
		state:     StateActive,
	}, nil
}

func validateSymmetry(cfg Config) error {
	if (cfg.Frontends == nil) != (cfg.Backends == nil) {
		return NewError(ErrCodeInvalidArgument, "frontend and backend vectors must both be present or both be absent")
	}
	if len(cfg.Frontends) != len(cfg.Backends) {
		return NewError(ErrCodeInvalidArgument, "frontend and backend vectors must be the same length")
	}
	return nil
}

func validateStrictMode(cfg Config) error {
	if cfg.TimeoutMs != -1 {
		return nil
	}
	if cfg.Frontends == nil || cfg.Backends == nil ||
		len(cfg.Frontends) == 0 || len(cfg.Backends) == 0 ||
		cfg.Frontends[0] == nil || cfg.Backends[0] == nil {
		return NewError(ErrCodeInvalidArgument, "blocking mode (timeout == -1) requires a non-degenerate first pair")
	}
	return nil
}

// State reports the current run state.
func (p *Proxy) State() State {
	return p.state
}

// metricsSink is the optional observability hook wired in by
// control.ProxyMetrics via Proxy.WithMetrics; nil-safe throughout.
type metricsSink interface {
	IncForwardedFrames()
	IncForwardedMessages()
	IncControlCommands()
	IncHookRejects()
}

// WithMetrics attaches a metrics sink; safe to call once, before the
// first Poll.
func (p *Proxy) WithMetrics(m metricsSink) {
	p.metrics = m
}

func (p *Proxy) bump(fn func(metricsSink)) {
	if p.metrics != nil {
		fn(p.metrics)
	}
}
