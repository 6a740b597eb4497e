// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package tcp implements a minimal TCP-backed proxy.Socket: a
// length-prefixed multipart frame codec (internal/wire) over net.Conn,
// plus an accept loop handing freshly-accepted connections to a caller
// callback. Thin transport glue — no proxy-core logic lives here.
package tcp
