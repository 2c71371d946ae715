package syncstore

import (
	"github.com/rs/zerolog/log"
)

// LogNotifier writes notifications to the global logger.
type LogNotifier struct{}

func (LogNotifier) Notify(n Notification) {
	event := log.Info()
	if n.Kind == NotifyError {
		event = log.Warn().Err(n.Err)
	}
	event.Str("kind", string(n.Kind)).Msg(n.Message)
}
