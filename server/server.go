// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package server implements the key-value server: a single-threaded
// poll event loop over non-blocking sockets, the keyspace with
// progressive rehashing and TTL expiration, and the command handlers.
// The only other execution contexts are the deallocation workers,
// which only ever touch values already detached from every index.
package server

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"
	"time"

	"github.com/Youmanvi/redisClone/config"
	"github.com/Youmanvi/redisClone/dlist"
	"github.com/Youmanvi/redisClone/hashtab"
	"github.com/Youmanvi/redisClone/logger"
	"github.com/Youmanvi/redisClone/minheap"
	"github.com/Youmanvi/redisClone/monitor"
	"github.com/Youmanvi/redisClone/workpool"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sys/unix"
)

const listenBacklog = 128

// Server owns the whole runtime state: the listener, the connection
// table indexed by fd, the idle queue, the keyspace and its TTL
// heap, and the worker pool. All fields are confined to the event
// loop except the pool's queue and the stats snapshot atomics, which
// Stats reads from other goroutines.
type Server struct {
	log           logger.Logger
	idleTimeoutMs int64

	listenFd int
	port     int
	conns    []*Conn // indexed by fd
	readBuf  []byte

	db       hashtab.Map
	ttl      minheap.Heap
	idle     dlist.Node // sentinel, oldest connection at the head
	numConns int

	pool        *workpool.Pool
	acceptDelay *backoff.ExponentialBackOff

	// snapshot published by the loop each tick, read by the monitor
	statKeys  atomic.Int64
	statConns atomic.Int64
	statTTL   atomic.Int64
}

// New binds the listening socket and prepares a server. The socket
// is non-blocking; nothing runs until Run.
func New(cfg config.Config, log logger.Logger) (*Server, error) {
	addr, err := net.ResolveTCPAddr("tcp4", cfg.ListenAddr)
	if err != nil {
		return nil, err
	}
	var ip [4]byte
	if addr.IP != nil {
		ip4 := addr.IP.To4()
		if ip4 == nil {
			return nil, fmt.Errorf("not an IPv4 address: %s", addr.IP)
		}
		copy(ip[:], ip4)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: addr.Port, Addr: ip}); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}
	sa, err := unix.Getsockname(fd)
	if err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("getsockname", err)
	}

	// accept errors like EMFILE are retried with a growing delay
	// instead of spinning on a level-triggered listener
	delay := backoff.NewExponentialBackOff()
	delay.InitialInterval = 5 * time.Millisecond
	delay.MaxInterval = time.Second
	delay.MaxElapsedTime = 0 // never give up

	s := &Server{
		log:           log,
		idleTimeoutMs: cfg.IdleTimeoutMs,
		listenFd:      fd,
		port:          sa.(*unix.SockaddrInet4).Port,
		readBuf:       make([]byte, 64<<10),
		pool:          workpool.New(cfg.Workers),
		acceptDelay:   delay,
	}
	s.idle.Init()
	s.log.Infof("listening on %s", cfg.ListenAddr)
	return s, nil
}

// Port returns the bound TCP port, which differs from the configured
// one when the address requested port 0.
func (s *Server) Port() int {
	return s.port
}

// Stats returns the snapshot last published by the event loop. It is
// safe to call from any goroutine.
func (s *Server) Stats() monitor.Stats {
	return monitor.Stats{
		Keys:        s.statKeys.Load(),
		Connections: s.statConns.Load(),
		TTLQueue:    s.statTTL.Load(),
	}
}
