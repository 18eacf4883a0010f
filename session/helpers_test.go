package session

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/stretchr/testify/require"
)

// textResult builds a result the way the server's text protocol would,
// with Values populated the way the client parses them.
func textResult(t *testing.T, names []string, rows ...[]interface{}) *mysql.Result {
	t.Helper()
	rs, err := mysql.BuildSimpleTextResultset(names, rows)
	require.NoError(t, err)
	for _, data := range rs.RowDatas {
		values, err := data.ParseText(rs.Fields, nil)
		require.NoError(t, err)
		rs.Values = append(rs.Values, values)
	}
	return &mysql.Result{Resultset: rs}
}

func emptyResult() *mysql.Result {
	return &mysql.Result{Resultset: &mysql.Resultset{}}
}

type fakeConn struct {
	mu      sync.Mutex
	queries []string
	handle  func(query string, args ...interface{}) (*mysql.Result, error)
	closed  bool
}

func (c *fakeConn) Execute(query string, args ...interface{}) (*mysql.Result, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	handle := c.handle
	c.mu.Unlock()
	if handle != nil {
		return handle(query, args...)
	}
	return emptyResult(), nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}

func (c *fakeConn) executed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.queries))
	copy(out, c.queries)
	return out
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// script answers the queries a session issues during start and streaming.
type script struct {
	checksum    string
	checksumErr error
	binlogs     [][]interface{}
	columns     map[string][][]interface{}
}

var columnNames = []string{"COLUMN_NAME", "COLLATION_NAME", "CHARACTER_SET_NAME", "COLUMN_COMMENT", "COLUMN_TYPE"}

func (s *script) controlConn(t *testing.T) *fakeConn {
	t.Helper()
	return &fakeConn{handle: func(query string, args ...interface{}) (*mysql.Result, error) {
		switch {
		case query == checksumQuery:
			if s.checksumErr != nil {
				return nil, s.checksumErr
			}
			return textResult(t, []string{"@@GLOBAL.binlog_checksum"}, []interface{}{s.checksum}), nil
		case query == showBinaryLogs:
			return textResult(t, []string{"Log_name", "File_size"}, s.binlogs...), nil
		case strings.HasPrefix(query, "SELECT COLUMN_NAME"):
			require.Len(t, args, 2)
			key := args[0].(string) + "." + args[1].(string)
			rows, ok := s.columns[key]
			if !ok {
				return textResult(t, columnNames), nil
			}
			return textResult(t, columnNames, rows...), nil
		case strings.HasPrefix(query, "KILL"):
			return emptyResult(), nil
		}
		return nil, errors.New("unexpected query: " + query)
	}}
}

func (s *script) streamConn(t *testing.T) *fakeConn {
	t.Helper()
	return &fakeConn{handle: func(query string, args ...interface{}) (*mysql.Result, error) {
		switch query {
		case "SELECT CONNECTION_ID()":
			return textResult(t, []string{"CONNECTION_ID()"}, []interface{}{42}), nil
		case checksumNoopStmt, adoptChecksumStmt:
			return emptyResult(), nil
		}
		return nil, errors.New("unexpected query: " + query)
	}}
}

// pairDialer hands out the control connection first and the stream
// connection second, matching the supervisor's open order.
func pairDialer(conns ...Conn) Dialer {
	var mu sync.Mutex
	i := 0
	return func(addr, user, password string) (Conn, error) {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(conns) {
			return nil, errors.New("no more connections scripted")
		}
		c := conns[i]
		i++
		return c, nil
	}
}
