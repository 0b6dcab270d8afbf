// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import (
	"unsafe"

	"github.com/Youmanvi/redisClone/dlist"
	"github.com/Youmanvi/redisClone/wire"
)

// buffer is a byte queue: append at the tail, consume at the head.
// The consumed prefix is dropped lazily once it dominates the
// backing array, so consume is amortized O(1).
type buffer struct {
	data []byte
	head int
}

func (b *buffer) bytes() []byte { return b.data[b.head:] }

func (b *buffer) size() int { return len(b.data) - b.head }

func (b *buffer) append(p []byte) {
	b.data = append(b.data, p...)
}

func (b *buffer) consume(n int) {
	b.head += n
	if b.head == len(b.data) {
		b.data = b.data[:0]
		b.head = 0
	} else if b.head > 4096 && b.head > len(b.data)-b.head {
		b.data = b.data[:copy(b.data, b.data[b.head:])]
		b.head = 0
	}
}

// Conn is the per-connection state: the socket, the readiness
// intents the next poll round should use, the framed request and
// response buffers, and the intrusive link into the idle queue.
type Conn struct {
	fd        int
	wantRead  bool
	wantWrite bool
	wantClose bool
	incoming  buffer // received bytes, consumed request by request
	outgoing  buffer // framed responses not yet written

	lastActiveMs int64
	idleNode     dlist.Node
}

func connOfIdle(node *dlist.Node) *Conn {
	return (*Conn)(unsafe.Add(unsafe.Pointer(node), -int(unsafe.Offsetof(Conn{}.idleNode))))
}

// tryOneRequest parses and executes one complete request from the
// incoming buffer. It reports whether it made progress; a protocol
// error marks the connection for destruction instead.
func (s *Server) tryOneRequest(conn *Conn) bool {
	args, size, err := wire.ParseRequest(conn.incoming.bytes())
	if err != nil {
		s.log.Errorf("protocol error on fd %d: %v", conn.fd, err)
		conn.wantClose = true
		return false
	}
	if size == 0 {
		// incomplete frame, wait for more bytes
		return false
	}
	var resp wire.Value
	if len(args) == 0 {
		resp = wire.Err{Code: wire.CodeBadArg, Msg: "empty command"}
	} else {
		resp = s.doRequest(args)
	}
	conn.outgoing.data = wire.AppendResponse(conn.outgoing.data, resp)
	conn.incoming.consume(size)
	return true
}
