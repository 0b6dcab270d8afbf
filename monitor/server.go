// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package monitor provides an embedded HTTP server exposing the
// key-value server's keyspace counters next to prometheus metrics
// and the standard Go debug endpoints.
package monitor

import (
	"encoding/json"
	_ "expvar" // Go documentation recommended usage
	"fmt"
	"net/http"
	_ "net/http/pprof" // Go documentation recommended usage

	"github.com/aristanetworks/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Stats is a point-in-time snapshot of the key-value server. The
// event loop publishes one per tick.
type Stats struct {
	// Keys is the number of entries in the keyspace, across both
	// tables while a migration is running.
	Keys int64 `json:"keys"`
	// Connections is the number of open client connections.
	Connections int64 `json:"connections"`
	// TTLQueue is the number of keys carrying a deadline.
	TTLQueue int64 `json:"ttl_queue"`
}

// StatsFunc returns a snapshot. It must be safe to call from any
// goroutine; the HTTP handlers run outside the event loop.
type StatsFunc func() Stats

// Server is the monitoring server for one key-value server.
type Server struct {
	addr  string
	stats StatsFunc
}

// New creates a monitoring server that will listen on addr.
func New(addr string, stats StatsFunc) *Server {
	return &Server{addr: addr, stats: stats}
}

var endpoints = []struct {
	path, desc string
}{
	{"/debug/keyspace", "keyspace counters"},
	{"/debug/vars", "expvar"},
	{"/debug/pprof/", "profiles"},
	{"/metrics", "prometheus metrics"},
}

func indexHandler(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "<html><head><title>/debug</title></head><body>\n")
	for _, e := range endpoints {
		fmt.Fprintf(w, "<div><a href=%q>%s</a> %s</div>\n", e.path, e.path, e.desc)
	}
	fmt.Fprint(w, "</body></html>\n")
}

func (s *Server) keyspaceHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.stats()); err != nil {
		glog.Errorf("Failed to write keyspace stats: %s", err)
	}
}

// Run registers the handlers and serves until the listener fails.
func (s *Server) Run() {
	http.HandleFunc("/debug", indexHandler)
	http.HandleFunc("/debug/keyspace", s.keyspaceHandler)
	http.Handle("/metrics", promhttp.Handler())

	if err := http.ListenAndServe(s.addr, nil); err != nil {
		glog.Errorf("Could not start monitor server: %s", err)
	}
}
