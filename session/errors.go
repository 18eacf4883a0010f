package session

import (
	"errors"
	"fmt"
)

// ErrStarted is returned by Start when the session has already been started.
var ErrStarted = errors.New("session already started")

// NegotiationError aborts Start before streaming begins: a checksum or
// position query failed in a way other than the recognized
// unknown-system-variable case.
type NegotiationError struct {
	Op  string
	Err error
}

func (e *NegotiationError) Error() string {
	return fmt.Sprintf("%s negotiation failed: %v", e.Op, e.Err)
}

func (e *NegotiationError) Unwrap() error { return e.Err }

// ConnectionError is a transport-level fault, fatal to the session.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection failed: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// MetadataError means the column metadata query returned zero rows for a
// table referenced by the stream. The session keeps running; row events for
// that table id remain undecodable until the next table-map event for it.
type MetadataError struct {
	Schema string
	Table  string
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("no column metadata for %s.%s: insufficient permission or table dropped", e.Schema, e.Table)
}
