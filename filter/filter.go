package filter

// Filter decides, per event name and per (schema, table) pair, whether a
// decoded binlog event is forwarded to the consumer or dropped.
//
// A nil include list/map means everything passes that side of the check;
// a present one narrows inclusion to exactly its content. Exclusion always
// wins over inclusion. Name matching is exact (case-sensitive), the names
// being the canonical ones produced by EventName.
type Filter struct {
	IncludeEvents []string
	ExcludeEvents []string
	IncludeSchema map[string]SchemaRule
	ExcludeSchema map[string]SchemaRule
}

// SkipEvent reports whether an event with the given name should be dropped.
func (f *Filter) SkipEvent(name string) bool {
	included := f.IncludeEvents == nil || inList(name, f.IncludeEvents)
	excluded := f.ExcludeEvents != nil && inList(name, f.ExcludeEvents)
	return excluded || !included
}

// SkipSchema reports whether events for (db, table) should be dropped.
// Applied before any metadata lookup, so filtered tables never pay that cost.
func (f *Filter) SkipSchema(db, table string) bool {
	included := true
	if f.IncludeSchema != nil {
		rule, ok := f.IncludeSchema[db]
		included = ok && rule.Match(table)
	}
	excluded := false
	if rule, ok := f.ExcludeSchema[db]; ok {
		excluded = rule.Match(table)
	}
	return excluded || !included
}

func inList(name string, list []string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
