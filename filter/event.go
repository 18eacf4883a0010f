package filter

import (
	"github.com/go-mysql-org/go-mysql/replication"
)

// EventName maps a decoded event type to the canonical name used by event
// filters. Row event versions collapse into one name since filters care
// about the kind of change, not the wire encoding. Types without a short
// name fall back to the decoder's own String().
func EventName(t replication.EventType) string {
	switch t {
	case replication.WRITE_ROWS_EVENTv0, replication.WRITE_ROWS_EVENTv1, replication.WRITE_ROWS_EVENTv2:
		return "WriteRows"
	case replication.UPDATE_ROWS_EVENTv0, replication.UPDATE_ROWS_EVENTv1, replication.UPDATE_ROWS_EVENTv2:
		return "UpdateRows"
	case replication.DELETE_ROWS_EVENTv0, replication.DELETE_ROWS_EVENTv1, replication.DELETE_ROWS_EVENTv2:
		return "DeleteRows"
	case replication.TABLE_MAP_EVENT:
		return "TableMap"
	case replication.ROTATE_EVENT:
		return "Rotate"
	case replication.FORMAT_DESCRIPTION_EVENT:
		return "Format"
	case replication.QUERY_EVENT:
		return "Query"
	case replication.XID_EVENT:
		return "Xid"
	case replication.GTID_EVENT:
		return "GTID"
	case replication.ANONYMOUS_GTID_EVENT:
		return "AnonymousGTID"
	case replication.PREVIOUS_GTIDS_EVENT:
		return "PreviousGTIDs"
	case replication.ROWS_QUERY_EVENT:
		return "RowsQuery"
	case replication.HEARTBEAT_EVENT:
		return "Heartbeat"
	case replication.STOP_EVENT:
		return "Stop"
	case replication.INTVAR_EVENT:
		return "IntVar"
	case replication.USER_VAR_EVENT:
		return "UserVar"
	}
	return t.String()
}
