package filter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-mysql-org/go-mysql/replication"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkipEventIncludeList(t *testing.T) {
	f := &Filter{IncludeEvents: []string{"WriteRows"}}
	assert.False(t, f.SkipEvent("WriteRows"))
	assert.True(t, f.SkipEvent("UpdateRows"))
	assert.True(t, f.SkipEvent("TableMap"))
}

func TestSkipEventExcludeWins(t *testing.T) {
	f := &Filter{
		IncludeEvents: []string{"WriteRows", "DeleteRows"},
		ExcludeEvents: []string{"WriteRows"},
	}
	assert.True(t, f.SkipEvent("WriteRows"))
	assert.False(t, f.SkipEvent("DeleteRows"))
}

func TestSkipEventDefaults(t *testing.T) {
	f := &Filter{}
	assert.False(t, f.SkipEvent("Rotate"))
	assert.False(t, f.SkipEvent("Xid"))

	f.ExcludeEvents = []string{"Rotate"}
	assert.True(t, f.SkipEvent("Rotate"))
	assert.False(t, f.SkipEvent("Xid"))
}

func TestSkipEventCaseSensitive(t *testing.T) {
	f := &Filter{IncludeEvents: []string{"WriteRows"}}
	assert.True(t, f.SkipEvent("writerows"))
}

func TestSkipSchemaTableList(t *testing.T) {
	f := &Filter{IncludeSchema: map[string]SchemaRule{"db1": TableList("t1")}}
	assert.False(t, f.SkipSchema("db1", "t1"))
	assert.True(t, f.SkipSchema("db1", "t2"))
	assert.True(t, f.SkipSchema("db2", "t1"))
}

func TestSkipSchemaAllTables(t *testing.T) {
	f := &Filter{IncludeSchema: map[string]SchemaRule{"db1": AllTables()}}
	assert.False(t, f.SkipSchema("db1", "anything"))
	assert.True(t, f.SkipSchema("db2", "anything"))
}

func TestSkipSchemaExcludeWins(t *testing.T) {
	f := &Filter{
		IncludeSchema: map[string]SchemaRule{"db1": AllTables()},
		ExcludeSchema: map[string]SchemaRule{"db1": TableList("secret")},
	}
	assert.False(t, f.SkipSchema("db1", "t1"))
	assert.True(t, f.SkipSchema("db1", "secret"))
}

func TestSkipSchemaAbsentIncludesEverything(t *testing.T) {
	f := &Filter{}
	assert.False(t, f.SkipSchema("any", "thing"))

	f.ExcludeSchema = map[string]SchemaRule{"noisy": AllTables()}
	assert.True(t, f.SkipSchema("noisy", "thing"))
	assert.False(t, f.SkipSchema("other", "thing"))
}

func TestSkipSchemaPredicate(t *testing.T) {
	f := &Filter{IncludeSchema: map[string]SchemaRule{
		"db1": TablePredicate(func(table string) bool {
			return strings.HasPrefix(table, "ord_")
		}),
	}}
	assert.False(t, f.SkipSchema("db1", "ord_2023"))
	assert.True(t, f.SkipSchema("db1", "users"))
}

func TestZeroRuleMatchesNothing(t *testing.T) {
	var rule SchemaRule
	assert.False(t, rule.Match("t1"))
}

func TestTableExpr(t *testing.T) {
	rule, err := TableExpr(`table startsWith "ord_"`)
	require.NoError(t, err)
	assert.True(t, rule.Match("ord_2023"))
	assert.False(t, rule.Match("users"))
}

func TestTableExprBadSource(t *testing.T) {
	_, err := TableExpr(`table +`)
	require.Error(t, err)
}

func TestRuleConfigJSON(t *testing.T) {
	var cfg Config
	data := `{
		"includeEvents": ["WriteRows"],
		"includeSchema": {
			"db1": ["t1"],
			"db2": true,
			"db3": {"expr": "table == \"x\""}
		}
	}`
	require.NoError(t, json.Unmarshal([]byte(data), &cfg))
	f := cfg.ToFilter()

	assert.False(t, f.SkipEvent("WriteRows"))
	assert.True(t, f.SkipEvent("UpdateRows"))

	assert.False(t, f.SkipSchema("db1", "t1"))
	assert.True(t, f.SkipSchema("db1", "t2"))
	assert.False(t, f.SkipSchema("db2", "anything"))
	assert.False(t, f.SkipSchema("db3", "x"))
	assert.True(t, f.SkipSchema("db3", "y"))
}

func TestRuleConfigRejectsFalse(t *testing.T) {
	var cfg Config
	err := json.Unmarshal([]byte(`{"includeSchema": {"db1": false}}`), &cfg)
	require.Error(t, err)
}

func TestEventName(t *testing.T) {
	assert.Equal(t, "WriteRows", EventName(replication.WRITE_ROWS_EVENTv1))
	assert.Equal(t, "WriteRows", EventName(replication.WRITE_ROWS_EVENTv2))
	assert.Equal(t, "UpdateRows", EventName(replication.UPDATE_ROWS_EVENTv2))
	assert.Equal(t, "DeleteRows", EventName(replication.DELETE_ROWS_EVENTv2))
	assert.Equal(t, "TableMap", EventName(replication.TABLE_MAP_EVENT))
	assert.Equal(t, "Rotate", EventName(replication.ROTATE_EVENT))
	assert.Equal(t, "Format", EventName(replication.FORMAT_DESCRIPTION_EVENT))
	assert.Equal(t, "Xid", EventName(replication.XID_EVENT))
}
