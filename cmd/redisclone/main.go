// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// The redisclone daemon is an in-memory key-value server. Clients
// speak a length-prefixed binary protocol over TCP and get string
// values, sorted sets, and per-key TTL expiration, all served from a
// single-threaded event loop.
package main

import (
	"flag"

	"github.com/aristanetworks/glog"
	"golang.org/x/sync/errgroup"

	"github.com/Youmanvi/redisClone/config"
	rcglog "github.com/Youmanvi/redisClone/glog"
	"github.com/Youmanvi/redisClone/monitor"
	"github.com/Youmanvi/redisClone/server"
)

func main() {
	addr := flag.String("addr", "", "TCP `address` to listen on (default :1234)")
	monitorAddr := flag.String("monitoraddr", "",
		"Address to expose the debug and metrics HTTP server on (disabled when empty)")
	configFlag := flag.String("config", "", "Optional YAML config `file` with server tunables")
	flag.Parse()

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		cfg, err = config.Load(*configFlag)
		if err != nil {
			glog.Fatalf("Can't load config file %q: %v", *configFlag, err)
		}
	}
	// explicit flags win over the config file
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *monitorAddr != "" {
		cfg.MonitorAddr = *monitorAddr
	}

	srv, err := server.New(cfg, &rcglog.Glog{})
	if err != nil {
		glog.Fatalf("Failed to listen on %s: %v", cfg.ListenAddr, err)
	}

	var group errgroup.Group
	if cfg.MonitorAddr != "" {
		group.Go(func() error {
			monitor.New(cfg.MonitorAddr, srv.Stats).Run()
			return nil
		})
	}
	group.Go(srv.Run)
	glog.Fatal(group.Wait())
}
