// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import (
	"os"
	"time"

	"github.com/Youmanvi/redisClone/dlist"
	"github.com/Youmanvi/redisClone/monotime"
	"golang.org/x/sys/unix"
)

// maxWorks bounds TTL expirations per tick so a large backlog cannot
// stall the loop.
const maxWorks = 2000

// monoNow is swapped out by tests to drive the timers.
var monoNow = monotime.Now

func (s *Server) nowUs() int64 {
	return int64(monoNow() / 1e3)
}

// Run drives the event loop forever: destroy doomed connections,
// poll with a timeout derived from the nearest deadline, drain I/O,
// then run the idle and TTL timers against one shared timestamp. It
// returns only on a poll failure other than an interrupt.
func (s *Server) Run() error {
	pollfds := make([]unix.PollFd, 0, 64)
	for {
		pollfds = pollfds[:0]
		pollfds = append(pollfds, unix.PollFd{Fd: int32(s.listenFd), Events: unix.POLLIN})
		for _, conn := range s.conns {
			if conn == nil {
				continue
			}
			if conn.wantClose {
				s.destroyConn(conn)
				continue
			}
			pfd := unix.PollFd{Fd: int32(conn.fd), Events: unix.POLLERR}
			if conn.wantRead {
				pfd.Events |= unix.POLLIN
			}
			if conn.wantWrite {
				pfd.Events |= unix.POLLOUT
			}
			pollfds = append(pollfds, pfd)
		}

		_, err := unix.Poll(pollfds, s.nextTimerMs())
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return os.NewSyscallError("poll", err)
		}

		if pollfds[0].Revents != 0 {
			s.handleAccept()
		}
		for _, pfd := range pollfds[1:] {
			if pfd.Revents == 0 {
				continue
			}
			conn := s.conns[pfd.Fd]
			if conn == nil {
				continue
			}
			// any activity moves the connection to the idle tail
			conn.lastActiveMs = s.nowUs() / 1000
			conn.idleNode.Detach()
			dlist.InsertBefore(&s.idle, &conn.idleNode)

			if pfd.Revents&unix.POLLIN != 0 {
				s.handleRead(conn)
			}
			if pfd.Revents&unix.POLLOUT != 0 {
				s.handleWrite(conn)
			}
			if pfd.Revents&unix.POLLERR != 0 || conn.wantClose {
				s.destroyConn(conn)
			}
		}

		s.processTimers()
		s.publishStats()
	}
}

// publishStats refreshes the snapshot the monitor serves. The loop
// is the only writer; readers load the atomics.
func (s *Server) publishStats() {
	s.statKeys.Store(int64(s.db.Len()))
	s.statConns.Store(int64(s.numConns))
	s.statTTL.Store(int64(len(s.ttl)))
}

// nextTimerMs returns the poll timeout: the time to the nearest idle
// or TTL deadline, or -1 to wait indefinitely when both queues are
// empty.
func (s *Server) nextTimerMs() int {
	now := s.nowUs() / 1000
	next := int64(-1)
	if !s.idle.Empty() {
		next = connOfIdle(s.idle.Next()).lastActiveMs + s.idleTimeoutMs
	}
	if !s.ttl.Empty() {
		if t := s.ttl.Top().Deadline / 1000; next < 0 || t < next {
			next = t
		}
	}
	if next < 0 {
		return -1
	}
	if next <= now {
		return 0
	}
	return int(next - now)
}

// processTimers destroys idle-expired connections and reaps a
// bounded batch of TTL-expired keys. Both timers share one timestamp
// so neither can starve under load.
func (s *Server) processTimers() {
	now := s.nowUs()
	nowMs := now / 1000

	for !s.idle.Empty() {
		conn := connOfIdle(s.idle.Next())
		if nowMs-conn.lastActiveMs < s.idleTimeoutMs {
			break
		}
		s.log.Infof("removing idle connection: fd %d", conn.fd)
		idleClosedTotal.Inc()
		s.destroyConn(conn)
	}

	works := 0
	for !s.ttl.Empty() && s.ttl.Top().Deadline <= now && works < maxWorks {
		ent := entryOfTTLRef(s.ttl.Top().Ref)
		s.detachEntry(ent)
		s.destroyEntry(ent)
		keysExpiredTotal.Inc()
		works++
	}
}

func (s *Server) handleAccept() {
	fd, _, err := unix.Accept4(s.listenFd, unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return
		}
		s.log.Errorf("accept error: %v", err)
		if err == unix.EMFILE || err == unix.ENFILE || err == unix.ENOBUFS {
			if d := s.acceptDelay.NextBackOff(); d > 0 {
				time.Sleep(d)
			}
		}
		return
	}
	s.acceptDelay.Reset()

	conn := &Conn{fd: fd, wantRead: true, lastActiveMs: s.nowUs() / 1000}
	conn.idleNode.Init()
	dlist.InsertBefore(&s.idle, &conn.idleNode)
	for len(s.conns) <= fd {
		s.conns = append(s.conns, nil)
	}
	s.conns[fd] = conn
	s.numConns++
	connsAcceptedTotal.Inc()
	connsActive.Inc()
}

func (s *Server) destroyConn(conn *Conn) {
	unix.Close(conn.fd)
	s.conns[conn.fd] = nil
	conn.idleNode.Detach()
	s.numConns--
	connsActive.Dec()
}

func (s *Server) handleRead(conn *Conn) {
	n, err := unix.Read(conn.fd, s.readBuf)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return
		}
		s.log.Errorf("read error on fd %d: %v", conn.fd, err)
		conn.wantClose = true
		return
	}
	if n == 0 {
		if conn.incoming.size() == 0 {
			s.log.Infof("client closed fd %d", conn.fd)
		} else {
			s.log.Errorf("unexpected EOF on fd %d", conn.fd)
		}
		conn.wantClose = true
		return
	}
	bytesReadTotal.Add(float64(n))
	conn.incoming.append(s.readBuf[:n])

	for s.tryOneRequest(conn) {
	}

	if conn.outgoing.size() > 0 {
		conn.wantRead = false
		conn.wantWrite = true
		// the socket is likely writable, try to flush now
		s.handleWrite(conn)
	}
}

func (s *Server) handleWrite(conn *Conn) {
	n, err := unix.Write(conn.fd, conn.outgoing.bytes())
	if err != nil {
		if err == unix.EAGAIN || err == unix.EINTR {
			return
		}
		s.log.Errorf("write error on fd %d: %v", conn.fd, err)
		conn.wantClose = true
		return
	}
	bytesWrittenTotal.Add(float64(n))
	conn.outgoing.consume(n)
	if conn.outgoing.size() == 0 {
		conn.wantWrite = false
		conn.wantRead = true
	}
}
