package task

import (
	"github.com/go-mysql-org/go-mysql/replication"

	"github.com/gridsx/binflow/session"
)

// Stats is a snapshot of how far a task's session has read.
type Stats struct {
	Events   int64  `json:"events"`
	Faults   int64  `json:"faults"`
	Filename string `json:"filename"`
	Position uint32 `json:"position"`
}

func (t *SessionTask) observe(n session.Notification) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	switch v := n.(type) {
	case session.Ready:
		t.stats.Filename = v.Position.Name
		t.stats.Position = v.Position.Pos
	case session.Binlog:
		t.stats.Events++
		if rot, ok := v.Event.Event.(*replication.RotateEvent); ok {
			t.stats.Filename = string(rot.NextLogName)
			t.stats.Position = uint32(rot.Position)
		} else if v.Event.Header.LogPos > 0 {
			t.stats.Position = v.Event.Header.LogPos
		}
	case session.Fault:
		t.stats.Faults++
	}
}

func (t *SessionTask) Stats() Stats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}
