// main wires the three listeners: the secure API, the deliberately
// vulnerable API, and the monitoring service. Both APIs share stores and the
// security log; they differ only in whether ownership verdicts are enforced.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Alex-byteai/bola-security-demo/internal/auth"
	authstore "github.com/Alex-byteai/bola-security-demo/internal/auth/store"
	"github.com/Alex-byteai/bola-security-demo/internal/authz"
	authzmetrics "github.com/Alex-byteai/bola-security-demo/internal/authz/metrics"
	"github.com/Alex-byteai/bola-security-demo/internal/monitor"
	"github.com/Alex-byteai/bola-security-demo/internal/orders"
	ordersstore "github.com/Alex-byteai/bola-security-demo/internal/orders/store"
	"github.com/Alex-byteai/bola-security-demo/internal/payments"
	paymentsstore "github.com/Alex-byteai/bola-security-demo/internal/payments/store"
	"github.com/Alex-byteai/bola-security-demo/internal/platform/config"
	"github.com/Alex-byteai/bola-security-demo/internal/platform/httpserver"
	"github.com/Alex-byteai/bola-security-demo/internal/platform/logger"
	platformmetrics "github.com/Alex-byteai/bola-security-demo/internal/platform/metrics"
	"github.com/Alex-byteai/bola-security-demo/internal/platform/postgres"
	platformredis "github.com/Alex-byteai/bola-security-demo/internal/platform/redis"
	ratelimitmw "github.com/Alex-byteai/bola-security-demo/internal/ratelimit/middleware"
	"github.com/Alex-byteai/bola-security-demo/internal/ratelimit/store/bucket"
	"github.com/Alex-byteai/bola-security-demo/internal/securitylog"
	"github.com/Alex-byteai/bola-security-demo/internal/stream"
	"github.com/Alex-byteai/bola-security-demo/internal/token"
	httptransport "github.com/Alex-byteai/bola-security-demo/internal/transport/http"
	"github.com/Alex-byteai/bola-security-demo/internal/users"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared sinks: both API variants append to the same files, tagged by
	// source, so the monitor sees one unified stream.
	security, err := securitylog.NewSink(filepath.Join(cfg.LogDir, "security.log"), cfg.LogMaxSize, cfg.LogMaxFiles)
	if err != nil {
		log.Error("failed to open security log", "error", err)
		os.Exit(1)
	}
	defer security.Close()
	access, err := securitylog.NewSink(filepath.Join(cfg.LogDir, "access.log"), cfg.LogMaxSize, cfg.LogMaxFiles)
	if err != nil {
		log.Error("failed to open access log", "error", err)
		os.Exit(1)
	}
	defer access.Close()

	// Stores: postgres when configured, seeded memory otherwise.
	pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
	}

	var (
		userStore    authstore.UserStore
		orderStore   ordersstore.OrderStore
		paymentStore paymentsstore.PaymentStore
	)
	if pool != nil {
		userStore = authstore.NewPostgresUserStore(pool)
		orderStore = ordersstore.NewPostgresOrderStore(pool)
		paymentStore = paymentsstore.NewPostgresPaymentStore(pool)
	} else {
		seeded, err := authstore.NewSeededUserStore()
		if err != nil {
			log.Error("failed to seed users", "error", err)
			os.Exit(1)
		}
		userStore = seeded
		orderStore = ordersstore.NewSeededOrderStore()
		paymentStore = paymentsstore.NewSeededPaymentStore()
	}

	// Rate limit buckets: redis when configured, per-process otherwise.
	var buckets bucket.Store = bucket.NewInMemoryStore()
	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		buckets = bucket.NewRedisStore(redisClient.Client)
	}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTTTL)
	httpMetrics := platformmetrics.New()
	authzMetrics := authzmetrics.New()
	lookup := authz.NewResourceLookup(orderStore, paymentStore)

	buildAPI := func(listener string, enforce bool) http.Handler {
		apiLog := log.With("listener", listener)
		emitter := securitylog.NewEmitter(security, access, apiLog, listener)
		engine := authz.New(lookup, enforce, authzMetrics)

		var limiter *ratelimitmw.Middleware
		if !cfg.RateLimitDisabled {
			limiter = ratelimitmw.New(buckets, emitter, apiLog)
		}

		return httptransport.NewAPIRouter(httptransport.APIDeps{
			Listener:       listener,
			Logger:         apiLog,
			Engine:         engine,
			Emitter:        emitter,
			Metrics:        httpMetrics,
			TokenValidator: tokens,
			Auth:           auth.NewHandler(auth.NewService(userStore, emitter), tokens, apiLog),
			Orders:         orders.NewHandler(engine, orderStore, emitter, apiLog),
			Users:          users.NewHandler(engine, userStore, emitter, apiLog),
			Payments:       payments.NewHandler(engine, paymentStore, emitter, apiLog),
			RateLimit:      limiter,
		})
	}

	secureAPI := buildAPI("secure", true)
	vulnerableAPI := buildAPI("vulnerable", false)

	// Monitoring pipeline: tail the security log, feed both the aggregator
	// and the WebSocket hub.
	monitorLog := log.With("listener", "monitor")
	monitorEmitter := securitylog.NewEmitter(security, access, monitorLog, "monitor")
	aggregator := monitor.NewAggregator()
	hub := stream.NewHub(func(n int) {
		monitorLog.Debug("subscriber dropped events", "dropped", n)
	})
	tailer := stream.NewTailer(security.Path(), cfg.PollInterval, monitorLog, func(ev securitylog.Event) {
		aggregator.Fold(ev)
		hub.Publish(ev)
	})
	if cfg.TailFromEnd {
		// Skip the historical log; stats start from this boot.
		if err := tailer.SeekEnd(); err != nil {
			log.Warn("failed to seek log end", "error", err)
		}
	}

	monitorAPI := httptransport.NewMonitorRouter(httptransport.MonitorDeps{
		Logger:         monitorLog,
		Emitter:        monitorEmitter,
		Metrics:        httpMetrics,
		TokenValidator: tokens,
		RoleAuthorizer: authz.New(nil, true, authzMetrics),
		Monitor:        monitor.NewHandler(aggregator, security.Path()),
		Stream:         stream.NewHandler(hub, security.Path(), monitorLog),
	})

	servers := []*http.Server{
		httpserver.New(cfg.SecureAddr, secureAPI),
		httpserver.New(cfg.VulnerableAddr, vulnerableAPI),
		httpserver.New(cfg.MonitorAddr, monitorAPI),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tailer.Run(gctx)
		return nil
	})
	for _, srv := range servers {
		g.Go(func() error {
			log.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Warn("shutdown incomplete", "addr", srv.Addr, "error", err)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
