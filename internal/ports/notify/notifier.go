package notify

import "context"

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notification es el equivalente server-side del toast de la UI.
type Notification struct {
	UserID  string `json:"user_id"`
	Level   Level  `json:"level"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

// Notifier es fire-and-forget: quien llama no depende de la entrega.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Nop descarta todo.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) {}
