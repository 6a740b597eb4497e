// File: cmd/proxyctl/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// proxyctl wires a proxy.Proxy from command-line endpoint flags and runs
// its poll loop to completion: a Config struct with a DefaultConfig, one
// run function that wires every subsystem, logging via the standard
// library logger throughout.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/momentics/msgproxy/control"
	"github.com/momentics/msgproxy/internal/pollbackend"
	"github.com/momentics/msgproxy/internal/workerpool"
	"github.com/momentics/msgproxy/proxy"
)

// Config collects every flag proxyctl understands, parallel to
// facade.Config's role of gathering deployment knobs behind one struct.
type Config struct {
	Frontends     endpointList
	Backends      endpointList
	OpenEndpoints endpointList
	Control       string
	Capture       string
	TimeoutMs     int
	MetricsPeriod time.Duration
	Workers       int
}

// DefaultConfig mirrors facade.DefaultConfig's role: sane defaults a
// caller can override before wiring.
func DefaultConfig() *Config {
	return &Config{
		TimeoutMs:     -1,
		MetricsPeriod: 10 * time.Second,
		Workers:       2,
	}
}

func parseFlags() *Config {
	cfg := DefaultConfig()
	flag.Var(&cfg.Frontends, "frontend", "frontend endpoint (repeatable); pairs positionally with -backend")
	flag.Var(&cfg.Backends, "backend", "backend endpoint (repeatable); pairs positionally with -frontend")
	flag.Var(&cfg.OpenEndpoints, "open", "open endpoint, polled but not forwarded (repeatable)")
	flag.StringVar(&cfg.Control, "control", "", "control endpoint accepting PAUSE/RESUME/TERMINATE frames")
	flag.StringVar(&cfg.Capture, "capture", "", "capture endpoint receiving a duplicate of every forwarded/control frame")
	flag.IntVar(&cfg.TimeoutMs, "timeout", cfg.TimeoutMs, "poll timeout in ms; -1 blocks until TERMINATE or an open endpoint is ready")
	flag.DurationVar(&cfg.MetricsPeriod, "metrics-period", cfg.MetricsPeriod, "interval between logged metrics snapshots")
	flag.IntVar(&cfg.Workers, "workers", cfg.Workers, "background worker pool size for metrics/reload dispatch")
	flag.Parse()
	return cfg
}

func main() {
	cfg := parseFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("proxyctl: %v", err)
	}
}

func run(cfg *Config) error {
	if len(cfg.Frontends) != len(cfg.Backends) {
		return proxy.NewError(proxy.ErrCodeInvalidArgument, "-frontend and -backend must be given the same number of times")
	}

	resolver := newSocketResolver()

	frontends, err := resolveAll(resolver, cfg.Frontends)
	if err != nil {
		return err
	}
	backends, err := resolveAll(resolver, cfg.Backends)
	if err != nil {
		return err
	}
	openEndpoints, err := resolveAll(resolver, cfg.OpenEndpoints)
	if err != nil {
		return err
	}

	var controlSock, captureSock proxy.Socket
	if cfg.Control != "" {
		if controlSock, err = resolver.resolve(cfg.Control); err != nil {
			return err
		}
	}
	if cfg.Capture != "" {
		if captureSock, err = resolver.resolve(cfg.Capture); err != nil {
			return err
		}
	}

	poller, err := pollbackend.New()
	if err != nil {
		return err
	}
	defer poller.Close()

	p, err := proxy.New(proxy.Config{
		OpenEndpoints: openEndpoints,
		Frontends:     frontends,
		Backends:      backends,
		Control:       controlSock,
		Capture:       captureSock,
		TimeoutMs:     cfg.TimeoutMs,
		Poller:        poller,
	})
	if err != nil {
		return err
	}

	configStore := control.NewConfigStore()
	metricsRegistry := control.NewMetricsRegistry()
	proxyMetrics := control.NewProxyMetrics(metricsRegistry)
	debugProbes := control.NewDebugProbes()
	p.WithMetrics(proxyMetrics)

	configStore.SetConfig(map[string]any{
		"timeout_ms":          cfg.TimeoutMs,
		"frontend_count":      len(frontends),
		"backend_count":       len(backends),
		"open_endpoint_count": len(openEndpoints),
	})
	debugProbes.RegisterProbe("proxy.state", func() any { return p.State().String() })
	debugProbes.RegisterProbe("metrics.snapshot", func() any { return metricsRegistry.GetSnapshot() })

	exec := workerpool.NewExecutor(cfg.Workers)
	defer exec.Close()

	stopMetrics := make(chan struct{})
	go runMetricsLoop(exec, metricsRegistry, cfg.MetricsPeriod, stopMetrics)
	defer close(stopMetrics)

	control.RegisterReloadHook(func() {
		if err := exec.Submit(func() {
			log.Printf("proxyctl: reload triggered, debug snapshot: %+v", debugProbes.DumpState())
		}); err != nil {
			log.Printf("proxyctl: reload dispatch failed: %v", err)
		}
	})

	log.Printf("proxyctl: running with %d pair(s), %d open endpoint(s), control=%v capture=%v",
		len(frontends), len(openEndpoints), controlSock != nil, captureSock != nil)

	for {
		n, err := p.Poll()
		if err != nil {
			return err
		}
		if p.State() == proxy.StateTerminated {
			log.Printf("proxyctl: terminated")
			return nil
		}
		if n > 0 {
			log.Printf("proxyctl: open endpoint %d is ready", n)
		}
	}
}

func resolveAll(r *socketResolver, addrs []string) ([]proxy.Socket, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	socks := make([]proxy.Socket, len(addrs))
	for i, addr := range addrs {
		sock, err := r.resolve(addr)
		if err != nil {
			return nil, err
		}
		socks[i] = sock
	}
	return socks, nil
}

func runMetricsLoop(exec *workerpool.Executor, registry *control.MetricsRegistry, period time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if err := exec.Submit(func() {
				log.Printf("proxyctl: metrics snapshot: %+v", registry.GetSnapshot())
			}); err != nil {
				log.Printf("proxyctl: metrics dispatch failed: %v", err)
			}
		}
	}
}
