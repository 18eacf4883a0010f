package session

import (
	"sync"
)

const columnsQuery = `SELECT COLUMN_NAME, COLLATION_NAME, CHARACTER_SET_NAME, COLUMN_COMMENT, COLUMN_TYPE ` +
	`FROM information_schema.columns WHERE table_schema = ? AND table_name = ? ORDER BY ORDINAL_POSITION`

type ColumnInfo struct {
	Name      string `json:"name"`
	Collation string `json:"collation,omitempty"`
	Charset   string `json:"charset,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Type      string `json:"type"`
}

type TableInfo struct {
	Schema  string       `json:"schema"`
	Table   string       `json:"table"`
	Columns []ColumnInfo `json:"columns"`
}

// tableCache maps the stream's numeric table ids to column schemas. The
// server reuses ids after schema-changing statements, so entries are
// overwritten in place whenever a table-map event references an id: row
// events always follow the table-map for the same id within the stream,
// which makes last-write-wins both necessary and sufficient.
type tableCache struct {
	mu      sync.RWMutex
	entries map[uint64]*TableInfo
}

func newTableCache() *tableCache {
	return &tableCache{entries: make(map[uint64]*TableInfo, 16)}
}

func (c *tableCache) Get(id uint64) *TableInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[id]
}

// Resolve refreshes the entry for id from the server's column catalog.
// Zero rows is a MetadataError, distinct from transport failure: the table
// was dropped or the session user cannot see information_schema for it.
func (c *tableCache) Resolve(id uint64, schema, table string, control Conn) (*TableInfo, error) {
	r, err := control.Execute(columnsQuery, schema, table)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	n := r.RowNumber()
	if n == 0 {
		return nil, &MetadataError{Schema: schema, Table: table}
	}
	info := &TableInfo{Schema: schema, Table: table, Columns: make([]ColumnInfo, 0, n)}
	for i := 0; i < n; i++ {
		var col ColumnInfo
		col.Name, _ = r.GetString(i, 0)
		col.Collation, _ = r.GetString(i, 1)
		col.Charset, _ = r.GetString(i, 2)
		col.Comment, _ = r.GetString(i, 3)
		col.Type, _ = r.GetString(i, 4)
		info.Columns = append(info.Columns, col)
	}
	c.mu.Lock()
	c.entries[id] = info
	c.mu.Unlock()
	return info, nil
}
