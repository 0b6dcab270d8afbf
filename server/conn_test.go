// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package server

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestBufferAppendConsume(t *testing.T) {
	var b buffer
	if b.size() != 0 {
		t.Fatalf("zero buffer size = %d", b.size())
	}
	b.append([]byte("hello "))
	b.append([]byte("world"))
	if got := string(b.bytes()); got != "hello world" {
		t.Fatalf("bytes = %q", got)
	}
	b.consume(6)
	if got := string(b.bytes()); got != "world" {
		t.Fatalf("after consume bytes = %q", got)
	}
	b.consume(5)
	if b.size() != 0 || b.head != 0 {
		t.Fatalf("fully consumed buffer: size %d head %d", b.size(), b.head)
	}
}

// TestBufferRandomized interleaves appends and consumes and checks
// the live window always matches a reference queue.
func TestBufferRandomized(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	var b buffer
	var ref []byte
	next := byte(0)
	for i := 0; i < 10000; i++ {
		if rng.Intn(2) == 0 {
			chunk := make([]byte, rng.Intn(300))
			for j := range chunk {
				chunk[j] = next
				next++
			}
			b.append(chunk)
			ref = append(ref, chunk...)
		} else if len(ref) > 0 {
			n := rng.Intn(len(ref) + 1)
			b.consume(n)
			ref = ref[n:]
		}
		if !bytes.Equal(b.bytes(), ref) {
			t.Fatalf("buffer diverged at step %d", i)
		}
	}
}
