package reminders

import (
	"context"
	"fmt"
	"time"

	"axolotary/internal/domain/breeding"
	"axolotary/internal/domain/users"
	"axolotary/internal/platform/logger"
	"axolotary/internal/ports/notify"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSchedule = "0 7 * * *"
	DefaultWindow   = 7 * 24 * time.Hour
)

// UserLister recorre todas las cuentas.
type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

// UpcomingSource da los eventos programados de un usuario dentro de la ventana.
type UpcomingSource interface {
	UpcomingWithin(ctx context.Context, ownerUserID string, window time.Duration) ([]breeding.Event, error)
}

// Scheduler envía a cada usuario un resumen de sus próximas reproducciones.
type Scheduler struct {
	cron     *cron.Cron
	schedule string
	window   time.Duration
	users    UserLister
	events   UpcomingSource
	notifier notify.Notifier
	log      logger.Logger
}

type Options struct {
	Schedule string
	Window   time.Duration
	Notifier notify.Notifier
	Logger   logger.Logger
}

func New(users UserLister, events UpcomingSource, opts Options) *Scheduler {
	if opts.Schedule == "" {
		opts.Schedule = DefaultSchedule
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	// parser estándar de 5 campos (min, hora, día, mes, día de semana)
	return &Scheduler{
		cron:     cron.New(),
		schedule: opts.Schedule,
		window:   opts.Window,
		users:    users,
		events:   events,
		notifier: opts.Notifier,
		log:      opts.Logger.With(map[string]any{"component": "reminders"}),
	}
}

// Start registra el job y arranca el cron. Una expresión inválida es error.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.run); err != nil {
		return fmt.Errorf("schedule reminders %q: %w", s.schedule, err)
	}
	s.log.Info("starting reminders scheduler", map[string]any{"schedule": s.schedule})
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine un job en curso.
func (s *Scheduler) Stop() {
	s.log.Info("stopping reminders scheduler", nil)
	<-s.cron.Stop().Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error("reminders run failed", map[string]any{"error": err.Error()})
	}
}

// RunOnce recorre los usuarios y notifica a los que tienen eventos próximos.
// Devuelve cuántas notificaciones se enviaron.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	all, err := s.users.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	sent := 0
	for _, u := range all {
		upcoming, err := s.events.UpcomingWithin(ctx, u.ID, s.window)
		if err != nil {
			// un usuario con error no frena al resto
			s.log.Warn("upcoming events lookup failed", map[string]any{"user_id": u.ID, "error": err.Error()})
			continue
		}
		if len(upcoming) == 0 {
			continue
		}

		s.notifier.Notify(ctx, notify.Notification{
			UserID:  u.ID,
			Level:   notify.LevelInfo,
			Title:   "Próximas reproducciones",
			Message: message(len(upcoming), s.window),
		})
		sent++
	}

	s.log.Info("reminders sent", map[string]any{"users": len(all), "sent": sent})
	return sent, nil
}

func message(n int, window time.Duration) string {
	days := int(window.Hours() / 24)
	if n == 1 {
		return fmt.Sprintf("Tienes 1 evento de reproducción programado en los próximos %d días", days)
	}
	return fmt.Sprintf("Tienes %d eventos de reproducción programados en los próximos %d días", n, days)
}
