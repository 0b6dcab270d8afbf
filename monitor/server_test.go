// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package monitor

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestKeyspaceHandler(t *testing.T) {
	s := New(":0", func() Stats {
		return Stats{Keys: 3, Connections: 1, TTLQueue: 2}
	})
	rec := httptest.NewRecorder()
	s.keyspaceHandler(rec, nil)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("Content-Type = %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{`"keys":3`, `"connections":1`, `"ttl_queue":2`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q is missing %q", body, want)
		}
	}
}

func TestIndexLinksEveryEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	indexHandler(rec, nil)
	body := rec.Body.String()
	for _, e := range endpoints {
		if !strings.Contains(body, e.path) {
			t.Errorf("index is missing a link to %s", e.path)
		}
	}
}
