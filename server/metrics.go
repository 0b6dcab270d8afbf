// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import "github.com/prometheus/client_golang/prometheus"

var (
	connsAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redisclone_connections_accepted_total",
		Help: "Connections accepted on the listener.",
	})
	connsActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "redisclone_connections_active",
		Help: "Currently open connections.",
	})
	idleClosedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redisclone_connections_idle_closed_total",
		Help: "Connections closed by the idle timeout.",
	})
	commandsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "redisclone_commands_total",
		Help: "Commands processed, by verb.",
	}, []string{"verb"})
	keysExpiredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redisclone_keys_expired_total",
		Help: "Keys reaped by the TTL timer.",
	})
	bytesReadTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redisclone_bytes_read_total",
		Help: "Bytes read from client sockets.",
	})
	bytesWrittenTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "redisclone_bytes_written_total",
		Help: "Bytes written to client sockets.",
	})
)

func init() {
	prometheus.MustRegister(
		connsAcceptedTotal,
		connsActive,
		idleClosedTotal,
		commandsTotal,
		keysExpiredTotal,
		bytesReadTotal,
		bytesWrittenTotal,
	)
}
