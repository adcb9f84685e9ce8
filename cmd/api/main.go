package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pet-adoption/internal/adapters/auth/jwtauth"
	"pet-adoption/internal/adapters/auth/remote"
	memblob "pet-adoption/internal/adapters/media/memory"
	minioblob "pet-adoption/internal/adapters/media/minio"
	s3blob "pet-adoption/internal/adapters/media/s3"
	"pet-adoption/internal/adapters/messaging/rabbitmq"
	redislimit "pet-adoption/internal/adapters/ratelimit/redis"
	pg "pet-adoption/internal/adapters/storage/postgres"
	"pet-adoption/internal/config"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/ports/auth"
	portmedia "pet-adoption/internal/ports/media"
	"pet-adoption/internal/ports/notify"
	"pet-adoption/internal/router"

	"github.com/getsentry/sentry-go"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
	})

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			TracesSampleRate: 0.2,
		}); err != nil {
			log.Error("sentry init failed", map[string]any{"error": err.Error()})
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := router.Options{
		Metrics:                   metrics.New(),
		Logger:                    log,
		StrictFoundPetTransitions: cfg.FoundPetsStrictTransitions,
		UploadMaxBytes:            cfg.UploadMaxBytes,
	}

	if cfg.DB.DSN != "" {
		db, err := openDB(ctx, cfg.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		opts.DB = db
		log.Info("using postgres storage", nil)
	} else {
		log.Warn("DB_DSN not set, using in-memory storage", nil)
	}

	if opts.AuthVerifier, err = newVerifier(cfg.Auth, log); err != nil {
		return err
	}

	if opts.Blob, err = newBlobStore(ctx, cfg.Blob, log); err != nil {
		return err
	}
	if p, ok := opts.Blob.(interface{ Ping(context.Context) error }); ok {
		opts.Ready = append(opts.Ready, router.Check{Name: "blob", Ping: p.Ping})
	}

	if cfg.AMQP.URL != "" {
		pub, err := rabbitmq.New(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
		if err != nil {
			return err
		}
		defer pub.Close()
		opts.Publisher = pub
		opts.Ready = append(opts.Ready, router.Check{Name: "amqp", Ping: pub.Ping})
	} else {
		opts.Publisher = notify.Discard{}
	}

	if cfg.Redis.Addr != "" {
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		opts.Ready = append(opts.Ready, router.Check{Name: "redis", Ping: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})

		if opts.AdoptionLimiter, err = newLimiter(rdb, "adoption-requests", cfg.RateLimit.AdoptionRequestsPerMinute); err != nil {
			return err
		}
		if opts.FoundPetLimiter, err = newLimiter(rdb, "found-pets", cfg.RateLimit.FoundPetReportsPerMinute); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.NewRouter(opts),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_mode": string(cfg.Auth.Mode), "blob_driver": string(cfg.Blob.Driver)})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down", nil)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func openDB(ctx context.Context, c config.DBConfig) (*sql.DB, error) {
	db, err := pg.Open(c.DSN, pg.PoolOptions{
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxIdleTime: c.ConnMaxIdleTime,
		ConnMaxLifetime: c.ConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	mctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := pg.Migrate(mctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newVerifier devuelve nil en modo dev (headers X-Debug-*).
func newVerifier(c config.AuthConfig, log logger.Logger) (auth.AuthVerifier, error) {
	switch c.Mode {
	case config.AuthJWT:
		jc := jwtauth.Config{
			Secret:   c.JWTSecret,
			Issuer:   c.JWTIssuer,
			Audience: c.JWTAudience,
			Leeway:   c.JWTLeeway,
		}
		if c.JWTPublicKeyFile != "" {
			pem, err := os.ReadFile(c.JWTPublicKeyFile)
			if err != nil {
				return nil, fmt.Errorf("read jwt public key: %w", err)
			}
			jc.PublicKeyPEM = pem
		}
		return jwtauth.New(jc)
	case config.AuthRemote:
		return remote.New(remote.Config{
			BaseURL:      c.IdentityBaseURL,
			APIKey:       c.IdentityAPIKey,
			APIKeyHeader: c.IdentityAPIKeyHeader,
			Timeout:      c.IdentityTimeout,
		}, log)
	default:
		log.Warn("auth mode dev: identity taken from X-Debug-User-ID", nil)
		return nil, nil
	}
}

func newBlobStore(ctx context.Context, c config.BlobConfig, log logger.Logger) (portmedia.BlobStore, error) {
	switch c.Driver {
	case config.BlobMinio:
		return minioblob.New(ctx, minioblob.Config{
			Endpoint:   c.Endpoint,
			AccessKey:  c.AccessKey,
			SecretKey:  c.SecretKey,
			Bucket:     c.Bucket,
			UseSSL:     c.UseSSL,
			PublicBase: c.PublicBase,
		}, log)
	case config.BlobS3:
		return s3blob.New(ctx, s3blob.Config{
			Region:          c.Region,
			Bucket:          c.Bucket,
			Endpoint:        c.Endpoint,
			AccessKeyID:     c.AccessKey,
			SecretAccessKey: c.SecretKey,
			PathStyle:       c.PathStyle,
			PublicBase:      c.PublicBase,
		}, log)
	default:
		return memblob.New(c.PublicBase)
	}
}

// newLimiter devuelve nil (sin límite) cuando perMinute es 0.
func newLimiter(rdb *goredis.Client, scope string, perMinute int) (middleware.RateLimiter, error) {
	if perMinute <= 0 {
		return nil, nil
	}
	return redislimit.New(rdb, "pet-adoption:ratelimit:"+scope, perMinute, time.Minute)
}
