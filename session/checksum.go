package session

import (
	"errors"
	"strings"

	"github.com/go-mysql-org/go-mysql/mysql"
)

const (
	checksumQuery     = "SELECT @@GLOBAL.binlog_checksum"
	adoptChecksumStmt = "SET @master_binlog_checksum=@@global.binlog_checksum"
	checksumNoopStmt  = "SELECT 1"
)

// ER_UNKNOWN_SYSTEM_VARIABLE: servers older than 5.6 have no
// binlog_checksum variable at all, which means checksums are off.
const errUnknownSystemVariable = 1193

// negotiateChecksum determines whether the server emits checksum-protected
// events and puts the stream connection's session into the matching mode.
// It returns true when the decoder must expect trailing checksums.
func negotiateChecksum(control, stream Conn) (bool, error) {
	r, err := control.Execute(checksumQuery)
	if err != nil {
		var myErr *mysql.MyError
		if errors.As(err, &myErr) && myErr.Code == errUnknownSystemVariable {
			return checksumDisabled(stream)
		}
		return false, &NegotiationError{Op: "checksum", Err: err}
	}
	var value string
	if r.RowNumber() > 0 {
		value, _ = r.GetString(0, 0)
	}
	if value == "" || strings.EqualFold(value, "NONE") {
		return checksumDisabled(stream)
	}
	if _, err := stream.Execute(adoptChecksumStmt); err != nil {
		return false, &NegotiationError{Op: "checksum", Err: err}
	}
	return true, nil
}

// checksumDisabled keeps the stream connection's handshake state consistent
// with a completed option negotiation by issuing a harmless query.
func checksumDisabled(stream Conn) (bool, error) {
	if _, err := stream.Execute(checksumNoopStmt); err != nil {
		return false, &NegotiationError{Op: "checksum", Err: err}
	}
	return false, nil
}
