// Command server runs the identity provider: the authorization code flow,
// login and registration, and the OIDC discovery surface.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"signet/internal/audit"
	identityhandler "signet/internal/identity/handler"
	identityservice "signet/internal/identity/service"
	"signet/internal/jwt_token"
	oauthhandler "signet/internal/oauth/handler"
	"signet/internal/oauth/metrics"
	oauthservice "signet/internal/oauth/service"
	"signet/internal/oauth/store/code"
	"signet/internal/oauth/store/session"
	"signet/internal/platform/config"
	"signet/internal/platform/httpserver"
	"signet/internal/platform/logger"
	"signet/internal/platform/postgres"
	platformredis "signet/internal/platform/redis"
	"signet/internal/registry"
	httptransport "signet/internal/transport/http"
	"signet/internal/wellknown"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Signing material. Fatal when absent: the provider cannot issue tokens
	// without its key pair.
	issuer, err := jwttoken.IssuerFromPEMFile(cfg.PrivateKeyPath, cfg.Issuer)
	if err != nil {
		log.Error("load signing key", "path", cfg.PrivateKeyPath, "error", err)
		return err
	}
	publicKey, err := jwttoken.PublicKeyFromPEMFile(cfg.PublicKeyPath)
	if err != nil {
		log.Error("load verification key", "path", cfg.PublicKeyPath, "error", err)
		return err
	}

	checks := map[string]httptransport.HealthCheck{}

	// Backing stores. Redis and Postgres are optional: without them the
	// process runs on in-memory stores, suitable for development only.
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err)
		return err
	}
	var codeStore oauthservice.CodeStore
	var sessionStore interface {
		oauthservice.SessionStore
		identityservice.SessionStore
	}
	if redisClient != nil {
		defer redisClient.Close()
		codeStore = code.NewRedis(redisClient.Client)
		sessionStore = session.NewRedis(redisClient.Client)
		checks["redis"] = redisClient.Health
	} else {
		log.Warn("REDIS_URL not set, using in-memory stores")
		codeStore = code.NewMemory()
		sessionStore = session.NewMemory()
	}

	pool, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("connect postgres", "error", err)
		return err
	}
	var clientStore registry.ClientStore
	var userStore registry.UserStore
	if pool != nil {
		defer pool.Close()
		if err := registry.EnsureSchema(ctx, pool); err != nil {
			log.Error("ensure registry schema", "error", err)
			return err
		}
		clientStore = registry.NewPostgresClientStore(pool)
		userStore = registry.NewPostgresUserStore(pool)
		checks["postgres"] = pool.Ping
	} else {
		log.Warn("DATABASE_URL not set, using in-memory registries")
		clientStore = registry.NewMemoryClientStore()
		userStore = registry.NewMemoryUserStore()
	}

	if cfg.ClientsSeedPath != "" {
		n, err := registry.SeedClients(ctx, cfg.ClientsSeedPath, clientStore)
		if err != nil {
			log.Error("seed clients", "error", err)
			return err
		}
		log.Info("seeded clients", "count", n)
	}
	if cfg.UsersSeedPath != "" {
		n, err := registry.SeedUsers(ctx, cfg.UsersSeedPath, userStore)
		if err != nil {
			log.Error("seed users", "error", err)
			return err
		}
		log.Info("seeded users", "count", n)
	}

	// Audit pipeline: Kafka when brokers are configured, in-process otherwise.
	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err = audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("create kafka publisher", "error", err)
			return err
		}
	} else {
		log.Warn("SIGNET_KAFKA_BROKERS not set, audit events stay in-process")
		publisher = audit.NewMemoryPublisher()
	}
	defer publisher.Close()
	recorder := audit.NewRecorder(publisher, log, 256)

	flowService := oauthservice.New(
		codeStore,
		sessionStore,
		clientStore,
		userStore,
		issuer,
		cfg.LoginURL,
		recorder,
		metrics.New(),
		log,
	)
	identityService := identityservice.New(userStore, sessionStore, recorder, log)

	router := httptransport.NewRouter(checks,
		oauthhandler.New(flowService, log),
		identityhandler.New(identityService, log),
		wellknown.New(cfg.Issuer, publicKey),
	)
	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting server", "addr", cfg.Addr, "issuer", cfg.Issuer)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := recorder.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
