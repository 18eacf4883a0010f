package session

import (
	"github.com/go-mysql-org/go-mysql/mysql"
)

const showBinaryLogs = "SHOW BINARY LOGS"

// resolveTailPosition returns the name and current size of the newest
// binary log file, or nil when the server has none. SHOW BINARY LOGS lists
// files in creation order, so the last row is the tail.
func resolveTailPosition(control Conn) (*mysql.Position, error) {
	r, err := control.Execute(showBinaryLogs)
	if err != nil {
		return nil, &NegotiationError{Op: "position", Err: err}
	}
	n := r.RowNumber()
	if n == 0 {
		return nil, nil
	}
	name, err := r.GetString(n-1, 0)
	if err != nil {
		return nil, &NegotiationError{Op: "position", Err: err}
	}
	size, err := r.GetInt(n-1, 1)
	if err != nil {
		return nil, &NegotiationError{Op: "position", Err: err}
	}
	return &mysql.Position{Name: name, Pos: uint32(size)}, nil
}
