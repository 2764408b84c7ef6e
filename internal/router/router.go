package router

import (
	"net/http"
	"time"

	"axolotary/internal/adapters/auth/jwtauth"
	mem "axolotary/internal/adapters/storage/memory"
	"axolotary/internal/adapters/storage/sqlstore"
	_ "axolotary/internal/docs"
	"axolotary/internal/domain/axolotls"
	"axolotary/internal/domain/breeding"
	"axolotary/internal/domain/colonies"
	"axolotary/internal/domain/users"
	"axolotary/internal/middleware"
	"axolotary/internal/platform/httpx"
	"axolotary/internal/platform/logger"
	"axolotary/internal/platform/metrics"
	"axolotary/internal/ports/auth"
	"axolotary/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil
	Tokens       auth.TokenIssuer
	DevMode      bool // acepta X-Debug-User-ID

	// Opcional: si viene, usa SQL (postgres o sqlite). Si no, in-memory.
	DB *sqlstore.DB

	Logger   logger.Logger
	Notifier notify.Notifier
	Metrics  *metrics.Metrics

	Version     string
	Environment string
	StartedAt   time.Time
}

// App expone el handler y los servicios que usan los jobs de fondo.
type App struct {
	Handler  http.Handler
	Users    *users.Service
	Colonies *colonies.Service
	Axolotls *axolotls.Service
	Breeding *breeding.Service
}

// NewRouter arma solo el handler HTTP.
func NewRouter(opts Options) http.Handler {
	return New(opts).Handler
}

func New(opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}
	// Sin emisor configurado: tokens efímeros, verificados por el mismo Manager.
	if opts.Tokens == nil {
		m := jwtauth.NewEphemeral(24 * time.Hour)
		opts.Tokens = m
		if opts.AuthVerifier == nil {
			opts.AuthVerifier = m
		}
	}

	var (
		colonyRepo   colonies.Repository
		axolotlRepo  axolotls.Repository
		breedingRepo breeding.Repository
		userRepo     users.Repository
	)
	if opts.DB != nil {
		colonyRepo = sqlstore.NewColoniesRepo(opts.DB)
		axolotlRepo = sqlstore.NewAxolotlsRepo(opts.DB)
		breedingRepo = sqlstore.NewBreedingRepo(opts.DB)
		userRepo = sqlstore.NewUsersRepo(opts.DB)
	} else {
		colonyRepo = mem.NewColonyRepo()
		axolotlRepo = mem.NewAxolotlRepo()
		breedingRepo = mem.NewBreedingRepo()
		userRepo = mem.NewUserRepo()
	}

	// Services por módulo
	coloniesSvc := colonies.NewService(colonyRepo)
	axolotlsSvc := axolotls.NewService(axolotlRepo, coloniesSvc,
		axolotls.WithNotifier(opts.Notifier),
		axolotls.WithMetrics(opts.Metrics),
	)
	breedingSvc := breeding.NewService(breedingRepo, axolotlsSvc, coloniesSvc,
		breeding.WithNotifier(opts.Notifier),
		breeding.WithMetrics(opts.Metrics),
	)
	coloniesSvc.UseCheckers(axolotlsSvc, breedingSvc)
	usersSvc := users.NewService(userRepo, coloniesSvc, opts.Tokens)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(opts.Logger, opts.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(middleware.AuthContext(middleware.AuthOptions{
		Verifier: opts.AuthVerifier,
		DevMode:  opts.DevMode,
	}))

	r.Get("/metrics", opts.Metrics.Handler().ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api", func(api chi.Router) {
		health := healthHandler(opts.Version, opts.Environment, opts.StartedAt)
		api.Get("/health", health)
		api.Head("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

		// Rutas por módulo
		users.RegisterRoutes(api, usersSvc)

		api.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireSession)
			colonies.RegisterRoutes(pr, coloniesSvc)
			axolotls.RegisterRoutes(pr, axolotlsSvc)
			breeding.RegisterRoutes(pr, breedingSvc)
		})
	})

	return &App{
		Handler:  r,
		Users:    usersSvc,
		Colonies: coloniesSvc,
		Axolotls: axolotlsSvc,
		Breeding: breedingSvc,
	}
}

type healthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"` // segundos
	Version     string    `json:"version"`
	Environment string    `json:"environment"`
}

// healthHandler godoc
// @Summary Estado del servicio
// @Tags health
// @Produce json
// @Success 200 {object} healthResponse
// @Router /api/health [get]
func healthHandler(version, env string, startedAt time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		now := time.Now().UTC()
		httpx.WriteJSON(w, http.StatusOK, healthResponse{
			Status:      "ok",
			Timestamp:   now,
			Uptime:      now.Sub(startedAt).Seconds(),
			Version:     version,
			Environment: env,
		})
	}
}
