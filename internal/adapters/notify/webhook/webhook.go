package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"axolotary/internal/platform/logger"
	"axolotary/internal/ports/notify"

	"github.com/go-resty/resty/v2"
)

var ErrNotConfigured = errors.New("webhook url not configured")

type Config struct {
	URL     string
	Timeout time.Duration
	// Opcional: se manda como "Authorization: Bearer <token>".
	Token string
}

// Sink publica notificaciones como JSON (POST) a un webhook externo.
// Notify no bloquea: el envío corre en una goroutine y los fallos solo se loguean.
type Sink struct {
	http *resty.Client
	url  string
	log  logger.Logger
}

func New(cfg Config, log logger.Logger) (*Sink, error) {
	u := strings.TrimSpace(cfg.URL)
	if u == "" {
		return nil, ErrNotConfigured
	}
	if log == nil {
		log = logger.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if tok := strings.TrimSpace(cfg.Token); tok != "" {
		c.SetAuthToken(tok)
	}

	return &Sink{
		http: c,
		url:  u,
		log:  log.With(map[string]any{"component": "notify.webhook"}),
	}, nil
}

func (s *Sink) Notify(ctx context.Context, n notify.Notification) {
	// El request no debe morir con el contexto del request HTTP que lo originó.
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
		defer cancel()

		if err := s.Send(sendCtx, n); err != nil {
			s.log.Warn("webhook delivery failed", map[string]any{"err": err, "user_id": n.UserID})
		}
	}()
}

// Send entrega una notificación de forma síncrona.
func (s *Sink) Send(ctx context.Context, n notify.Notification) error {
	resp, err := s.http.R().
		SetContext(ctx).
		SetBody(payload{
			Notification: n,
			SentAt:       time.Now().UTC(),
		}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook responded status=%d body=%s", resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}

type payload struct {
	notify.Notification
	SentAt time.Time `json:"sent_at"`
}
