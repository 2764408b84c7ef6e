package logsink

import (
	"context"

	"axolotary/internal/platform/logger"
	"axolotary/internal/ports/notify"
)

// Sink escribe cada notificación en el log. Es el sink por defecto.
type Sink struct {
	log logger.Logger
}

func New(log logger.Logger) *Sink {
	if log == nil {
		log = logger.NewNop()
	}
	return &Sink{log: log.With(map[string]any{"component": "notify"})}
}

func (s *Sink) Notify(_ context.Context, n notify.Notification) {
	fields := map[string]any{
		"user_id": n.UserID,
		"level":   string(n.Level),
		"title":   n.Title,
	}
	if n.Level == notify.LevelError {
		s.log.Warn(n.Message, fields)
		return
	}
	s.log.Info(n.Message, fields)
}
