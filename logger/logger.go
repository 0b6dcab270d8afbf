// Copyright (c) 2025 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package logger defines the logging interface the server packages
// log through, so libraries do not hard-wire a logging backend.
package logger

// Logger is an interface to pass a generic logger without depending
// on a specific logging package.
type Logger interface {
	// Info logs at the info level
	Info(args ...interface{})
	// Infof logs at the info level, with format
	Infof(format string, args ...interface{})
	// Error logs at the error level
	Error(args ...interface{})
	// Errorf logs at the error level, with format
	Errorf(format string, args ...interface{})
	// Fatal logs at the fatal level
	Fatal(args ...interface{})
	// Fatalf logs at the fatal level, with format
	Fatalf(format string, args ...interface{})
}

// Nop is a Logger that discards everything. Fatal and Fatalf panic,
// since callers rely on them not returning.
type Nop struct{}

// Info implements Logger.
func (Nop) Info(args ...interface{}) {}

// Infof implements Logger.
func (Nop) Infof(format string, args ...interface{}) {}

// Error implements Logger.
func (Nop) Error(args ...interface{}) {}

// Errorf implements Logger.
func (Nop) Errorf(format string, args ...interface{}) {}

// Fatal implements Logger.
func (Nop) Fatal(args ...interface{}) {
	panic("fatal error")
}

// Fatalf implements Logger.
func (Nop) Fatalf(format string, args ...interface{}) {
	panic("fatal error")
}
