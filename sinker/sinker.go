package sinker

import (
	"github.com/gridsx/binflow/session"
)

// Sinker is a destination for the notifications a session emits. One
// session can fan out to several sinkers.
type Sinker interface {
	// whether this sinker still accepts notifications
	Enabled() bool

	// take it out of rotation after a fatal error
	Disable()

	// handle one notification
	OnNotification(n session.Notification) error

	// whether a handling error should disable the sinker
	ContinueOnError() bool
}

// Dispatch feeds one notification to every enabled sinker, disabling the
// ones that fail and do not continue on error.
func Dispatch(sinkers []Sinker, n session.Notification) {
	for _, s := range sinkers {
		if !s.Enabled() {
			continue
		}
		if err := s.OnNotification(n); err != nil && !s.ContinueOnError() {
			s.Disable()
		}
	}
}
