package filter

import (
	"encoding/json"
	"fmt"

	"github.com/antonmedv/expr"
)

type ruleKind int

const (
	ruleAll ruleKind = iota + 1
	ruleList
	rulePredicate
)

// SchemaRule is the per-schema table rule: all tables, an explicit table
// list, or a predicate. The zero value matches nothing.
type SchemaRule struct {
	kind   ruleKind
	tables []string
	pred   func(table string) bool
}

// AllTables matches every table of the schema.
func AllTables() SchemaRule {
	return SchemaRule{kind: ruleAll}
}

// TableList matches tables by exact membership.
func TableList(tables ...string) SchemaRule {
	return SchemaRule{kind: ruleList, tables: tables}
}

// TablePredicate matches tables by invoking pred.
func TablePredicate(pred func(table string) bool) SchemaRule {
	return SchemaRule{kind: rulePredicate, pred: pred}
}

// TableExpr compiles an expression over the variable `table` into a
// predicate rule, e.g. `table startsWith "order_"`.
func TableExpr(src string) (SchemaRule, error) {
	program, err := expr.Compile(src, expr.Env(map[string]interface{}{"table": ""}))
	if err != nil {
		return SchemaRule{}, fmt.Errorf("bad table expression %q: %w", src, err)
	}
	return TablePredicate(func(table string) bool {
		out, err := expr.Run(program, map[string]interface{}{"table": table})
		if err != nil {
			return false
		}
		v, ok := out.(bool)
		return ok && v
	}), nil
}

func (r SchemaRule) Match(table string) bool {
	switch r.kind {
	case ruleAll:
		return true
	case ruleList:
		return inList(table, r.tables)
	case rulePredicate:
		return r.pred != nil && r.pred(table)
	}
	return false
}

// RuleConfig is the JSON form of a SchemaRule as stored in task
// configuration: `true` (all tables), `["t1","t2"]` (table list) or
// `{"expr": "..."}` (expression predicate).
type RuleConfig struct {
	rule SchemaRule
}

func (c *RuleConfig) UnmarshalJSON(data []byte) error {
	var all bool
	if err := json.Unmarshal(data, &all); err == nil {
		if !all {
			return fmt.Errorf("schema rule `false` is meaningless, omit the schema instead")
		}
		c.rule = AllTables()
		return nil
	}
	var tables []string
	if err := json.Unmarshal(data, &tables); err == nil {
		c.rule = TableList(tables...)
		return nil
	}
	var e struct {
		Expr string `json:"expr"`
	}
	if err := json.Unmarshal(data, &e); err != nil || len(e.Expr) == 0 {
		return fmt.Errorf("schema rule must be true, a table list or {\"expr\": ...}: %s", string(data))
	}
	rule, err := TableExpr(e.Expr)
	if err != nil {
		return err
	}
	c.rule = rule
	return nil
}

func (c *RuleConfig) Rule() SchemaRule {
	return c.rule
}

// Config is the JSON shape of a whole filter policy.
type Config struct {
	IncludeEvents []string              `json:"includeEvents,omitempty"`
	ExcludeEvents []string              `json:"excludeEvents,omitempty"`
	IncludeSchema map[string]RuleConfig `json:"includeSchema,omitempty"`
	ExcludeSchema map[string]RuleConfig `json:"excludeSchema,omitempty"`
}

func (c *Config) ToFilter() *Filter {
	f := &Filter{
		IncludeEvents: c.IncludeEvents,
		ExcludeEvents: c.ExcludeEvents,
	}
	if c.IncludeSchema != nil {
		f.IncludeSchema = make(map[string]SchemaRule, len(c.IncludeSchema))
		for db, rc := range c.IncludeSchema {
			f.IncludeSchema[db] = rc.Rule()
		}
	}
	if c.ExcludeSchema != nil {
		f.ExcludeSchema = make(map[string]SchemaRule, len(c.ExcludeSchema))
		for db, rc := range c.ExcludeSchema {
			f.ExcludeSchema[db] = rc.Rule()
		}
	}
	return f
}
