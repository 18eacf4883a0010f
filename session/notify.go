package session

import (
	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/go-mysql-org/go-mysql/replication"
)

// Notification is the closed set of events a session delivers on its
// notification channel. Ready always precedes the first Binlog; Stopped is
// the last element before the channel closes.
type Notification interface {
	notification()
}

// Ready signals that streaming began from Position.
type Ready struct {
	Position mysql.Position
}

// Binlog carries one decoded, filtered event. Table is the resolved
// metadata for row and table-map events, nil when resolution failed or the
// event carries no table reference; Err holds the resolution failure for
// the event it accompanied.
type Binlog struct {
	Name  string
	Event *replication.BinlogEvent
	Table *TableInfo
	Err   error
}

// Fault is a session-level error. It is terminal only when the underlying
// connection itself died; metadata and decoder faults leave the session
// streaming.
type Fault struct {
	Err error
}

// Stopped signals that teardown completed.
type Stopped struct{}

func (Ready) notification()   {}
func (Binlog) notification()  {}
func (Fault) notification()   {}
func (Stopped) notification() {}
