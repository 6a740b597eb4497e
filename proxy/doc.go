// File: proxy/doc.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package proxy implements a generalized message-proxy core on top of a
// minimal message-socket capability surface (Send/Recv/Descriptor plus an
// external Poller). It supervises a bounded chain of (frontend, backend)
// pairs and open endpoints, duplicates traffic to an optional capture
// sink, runs per-direction hooks, and is steered by PAUSE/RESUME/TERMINATE
// commands on an optional control socket.
//
// The topology build is a one-shot construction step (build fully, fail
// fast, never reshape afterwards); the poll loop follows an epoll-style
// "block, dispatch, repeat" shape; PAUSE/RESUME/TERMINATE state gating is
// a small guarded state machine layered on top.
package proxy
