// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp provides a minimal TCP listener/acceptor handing off
// accepted connections as proxy.Socket. The design is extensible for
// zero-copy and CPU affinity optimizations.
//
// The accept loop and optional worker-CPU affinity pinning hand each
// connection straight to ConnHandler as a framed proxy.Socket — no
// handshake of any kind gates the handoff.

package tcp

import (
	"fmt"
	"net"
	"os"
)

// ListenerConfig holds configuration for the TCP listener.
type ListenerConfig struct {
	Addr        string        // TCP address to bind (e.g., ":9001")
	WorkerCPUs  []int         // List of CPUs for optional affinity pinning
	ConnHandler func(*Socket) // Handler invoked with each accepted socket
}

// StartTCPListener opens the TCP listening socket, applies affinity if
// requested, and runs the accept loop.
func StartTCPListener(cfg *ListenerConfig) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("tcp listen failed: %v", err)
	}
	defer ln.Close()
	fmt.Printf("TCP listening on %s\n", cfg.Addr)

	// Apply affinity to main accept goroutine (if configured)
	if len(cfg.WorkerCPUs) > 0 {
		setCPUAffinity(cfg.WorkerCPUs[0])
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "accept error: %v\n", err)
			continue
		}
		sock, err := New(conn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "socket init error: %v\n", err)
			conn.Close()
			continue
		}
		go cfg.ConnHandler(sock)
	}
}
