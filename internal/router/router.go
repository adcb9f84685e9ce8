package router

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	memblob "pet-adoption/internal/adapters/media/memory"
	mem "pet-adoption/internal/adapters/storage/memory"
	pg "pet-adoption/internal/adapters/storage/postgres"
	_ "pet-adoption/internal/docs"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/alerts"
	"pet-adoption/internal/domain/favorites"
	"pet-adoption/internal/domain/foundpets"
	"pet-adoption/internal/domain/media"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/httpx"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/auth"
	portmedia "pet-adoption/internal/ports/media"
	"pet-adoption/internal/ports/notify"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

const defaultMediaBase = "http://localhost:8080/media"

// Check es una dependencia que /health/ready consulta.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: si no viene, blobs en memoria servidos en /media.
	Blob portmedia.BlobStore

	Publisher notify.Publisher
	Metrics   *metrics.Metrics
	Logger    logger.Logger

	// Limiters opcionales para las escrituras caras (nil => sin límite).
	AdoptionLimiter middleware.RateLimiter
	FoundPetLimiter middleware.RateLimiter

	StrictFoundPetTransitions bool
	UploadMaxBytes            int64

	Ready []Check
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	pub := opts.Publisher
	if pub == nil {
		pub = notify.Discard{}
	}

	blob := opts.Blob
	if blob == nil {
		// defaultMediaBase es válida, New no puede fallar acá.
		blob, _ = memblob.New(defaultMediaBase)
	}

	var (
		userRepo     users.Repository
		petRepo      pets.Repository
		favoriteRepo favorites.Repository
		adoptionRepo adoptions.Repository
		alertRepo    alerts.Repository
		foundRepo    foundpets.Repository
	)
	ready := append([]Check(nil), opts.Ready...)

	if db := opts.DB; db != nil {
		userRepo = pg.NewUsersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		favoriteRepo = pg.NewFavoritesRepo(db)
		adoptionRepo = pg.NewAdoptionsRepo(db)
		alertRepo = pg.NewAlertsRepo(db)
		foundRepo = pg.NewFoundPetsRepo(db)
		ready = append(ready, Check{Name: "postgres", Ping: db.PingContext})
	} else {
		store := mem.NewStore()
		userRepo = mem.NewUserRepo(store)
		petRepo = mem.NewPetRepo(store)
		favoriteRepo = mem.NewFavoriteRepo(store)
		adoptionRepo = mem.NewAdoptionRepo(store)
		alertRepo = mem.NewAlertRepo(store)
		foundRepo = mem.NewFoundPetRepo(store)
	}

	// Services por módulo
	usersSvc := users.NewService(userRepo)
	mediaSvc := media.NewService(blob, opts.UploadMaxBytes, log.With(map[string]any{"module": "media"}))
	petsSvc := pets.NewService(petRepo, mediaSvc)
	favoritesSvc := favorites.NewService(favoriteRepo, petsSvc)
	adoptionsSvc := adoptions.NewService(adoptionRepo, petsSvc, adoptions.Options{
		Publisher: pub,
		Observer:  m,
		Logger:    log.With(map[string]any{"module": "adoptions"}),
	})
	alertsSvc := alerts.NewService(alertRepo)
	foundSvc := foundpets.NewService(foundRepo, alertsSvc, foundpets.Options{
		StrictTransitions: opts.StrictFoundPetTransitions,
		Publisher:         pub,
		Observer:          m,
		Images:            mediaSvc,
		Logger:            log.With(map[string]any{"module": "foundpets"}),
	})

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Metrics(m))
	r.Use(middleware.RequestLog(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier, usersSvc))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/health/ready", readyHandler(ready))
	r.Handle("/metrics", m.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	if h, ok := blob.(http.Handler); ok {
		r.Handle("/media/*", http.StripPrefix("/media", h))
	}

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc, log)
	pets.RegisterRoutes(r, petsSvc, log)
	favorites.RegisterRoutes(r, favoritesSvc, log)
	adoptions.RegisterRoutes(r, adoptionsSvc, log, middleware.RateLimit(opts.AdoptionLimiter, "adoption-requests", log))
	alerts.RegisterRoutes(r, alertsSvc, log)
	foundpets.RegisterRoutes(r, foundSvc, log, middleware.RateLimit(opts.FoundPetLimiter, "found-pets", log))
	media.RegisterRoutes(r, mediaSvc, log)

	return r
}

type readyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func readyHandler(checks []Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyResponse{Status: "ok", Checks: map[string]string{}}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				resp.Checks[c.Name] = err.Error()
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httpx.WriteJSON(w, status, resp)
	}
}
