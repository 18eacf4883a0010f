package sinker

import (
	"github.com/siddontang/go-log/log"

	"github.com/gridsx/binflow/session"
)

// LogSinker writes every notification to the log. It is the built-in
// consumer for sessions launched from the admin API.
type LogSinker struct {
	disabled bool
}

func (s *LogSinker) Enabled() bool {
	return !s.disabled
}

func (s *LogSinker) Disable() {
	s.disabled = true
}

func (s *LogSinker) ContinueOnError() bool {
	return true
}

func (s *LogSinker) OnNotification(n session.Notification) error {
	switch v := n.(type) {
	case session.Ready:
		log.Infof("streaming from %s:%d", v.Position.Name, v.Position.Pos)
	case session.Binlog:
		if v.Table != nil {
			log.Infof("event %s %s.%s at %d", v.Name, v.Table.Schema, v.Table.Table, v.Event.Header.LogPos)
		} else {
			log.Infof("event %s at %d", v.Name, v.Event.Header.LogPos)
		}
	case session.Fault:
		log.Errorf("session error: %v", v.Err)
	case session.Stopped:
		log.Infof("session stopped")
	}
	return nil
}
