// File: cmd/proxyctl/endpoint.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package main

import (
	"fmt"
	"net"
	"strings"

	"github.com/momentics/msgproxy/proxy"
	"github.com/momentics/msgproxy/transport/inprocsock"
	"github.com/momentics/msgproxy/transport/tcp"
)

// endpointList accumulates repeated -frontend/-backend/-open flags into an
// ordered slice, mirroring the flag.Value idiom used for multi-valued CLI
// flags throughout Go command-line tools.
type endpointList []string

func (e *endpointList) String() string { return strings.Join(*e, ",") }

func (e *endpointList) Set(v string) error {
	*e = append(*e, v)
	return nil
}

// socketResolver turns an endpoint address string into a proxy.Socket.
// Three schemes are understood:
//
//	tcp-dial://host:port    dial out immediately
//	tcp-listen://host:port  listen, accept exactly one connection, then close
//	inproc://name           an in-process pair; the first reference names
//	                        creates the pair, the second reference to the
//	                        same name returns its partner end
type socketResolver struct {
	inproc map[string]*inprocsock.Socket
}

func newSocketResolver() *socketResolver {
	return &socketResolver{inproc: make(map[string]*inprocsock.Socket)}
}

func (r *socketResolver) resolve(addr string) (proxy.Socket, error) {
	switch {
	case strings.HasPrefix(addr, "tcp-dial://"):
		return tcp.Dial("tcp", strings.TrimPrefix(addr, "tcp-dial://"))
	case strings.HasPrefix(addr, "tcp-listen://"):
		return acceptOnce(strings.TrimPrefix(addr, "tcp-listen://"))
	case strings.HasPrefix(addr, "inproc://"):
		return r.resolveInproc(strings.TrimPrefix(addr, "inproc://"))
	default:
		return nil, fmt.Errorf("proxyctl: unrecognized endpoint scheme in %q", addr)
	}
}

func acceptOnce(hostport string) (proxy.Socket, error) {
	ln, err := net.Listen("tcp", hostport)
	if err != nil {
		return nil, fmt.Errorf("proxyctl: listen %s: %w", hostport, err)
	}
	defer ln.Close()
	conn, err := ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("proxyctl: accept on %s: %w", hostport, err)
	}
	return tcp.New(conn)
}

func (r *socketResolver) resolveInproc(name string) (proxy.Socket, error) {
	if partner, ok := r.inproc[name]; ok {
		delete(r.inproc, name)
		return partner, nil
	}
	a, b, err := inprocsock.NewPair()
	if err != nil {
		return nil, fmt.Errorf("proxyctl: inproc pair %q: %w", name, err)
	}
	r.inproc[name] = b
	return a, nil
}
