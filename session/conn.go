package session

import (
	"fmt"

	"github.com/go-mysql-org/go-mysql/client"
	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/siddontang/go-log/log"
	"github.com/siddontang/go/sync2"
)

// Conn is the slice of a MySQL connection the session needs: query
// execution and teardown. *client.Conn satisfies it.
type Conn interface {
	Execute(query string, args ...interface{}) (*mysql.Result, error)
	Close() error
}

// Dialer opens one authenticated connection to the source server.
type Dialer func(addr, user, password string) (Conn, error)

// DefaultDialer connects through go-mysql's client, which negotiates the
// server's authentication plugin during the handshake.
func DefaultDialer(addr, user, password string) (Conn, error) {
	return client.Connect(addr, user, password, "")
}

// connPair owns the session's two connections: control for metadata and
// administrative queries, stream for the replication protocol side.
type connPair struct {
	control      Conn
	stream       Conn
	ownsControl  bool
	streamThread int64
	closed       sync2.AtomicInt32
}

// openPair dials the pair. A non-nil control reuses an externally supplied
// connection which close() will then leave alone.
func openPair(dial Dialer, addr, user, password string, control Conn) (*connPair, error) {
	p := &connPair{control: control, ownsControl: control == nil}
	var err error
	if p.control == nil {
		p.control, err = dial(addr, user, password)
		if err != nil {
			return nil, fmt.Errorf("dial control connection: %w", err)
		}
	}
	p.stream, err = dial(addr, user, password)
	if err != nil {
		if p.ownsControl {
			_ = p.control.Close()
		}
		return nil, fmt.Errorf("dial stream connection: %w", err)
	}
	r, err := p.stream.Execute("SELECT CONNECTION_ID()")
	if err != nil {
		p.close()
		return nil, fmt.Errorf("read stream thread id: %w", err)
	}
	if r.RowNumber() > 0 {
		p.streamThread, _ = r.GetInt(0, 0)
	}
	return p, nil
}

// close is idempotent: destroy the stream connection, kill its server-side
// thread over the control connection, then destroy the control connection
// when this session owns it. The kill may race the socket teardown, so its
// failure is logged and swallowed.
func (p *connPair) close() {
	if !p.closed.CompareAndSwap(0, 1) {
		return
	}
	if p.stream != nil {
		_ = p.stream.Close()
	}
	if p.streamThread > 0 && p.control != nil {
		if _, err := p.control.Execute(fmt.Sprintf("KILL %d", p.streamThread)); err != nil {
			log.Warnf("kill stream thread %d: %v", p.streamThread, err)
		}
	}
	if p.ownsControl && p.control != nil {
		_ = p.control.Close()
	}
}
