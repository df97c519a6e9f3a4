package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"

	"github.com/tupatil-17/easy-shop/internal/cache"
	"github.com/tupatil-17/easy-shop/internal/config"
	"github.com/tupatil-17/easy-shop/internal/domain"
	"github.com/tupatil-17/easy-shop/internal/notify"
	"github.com/tupatil-17/easy-shop/internal/observability/logging"
	"github.com/tupatil-17/easy-shop/internal/observability/metrics"
	"github.com/tupatil-17/easy-shop/internal/payment"
	"github.com/tupatil-17/easy-shop/internal/service/impl"
	"github.com/tupatil-17/easy-shop/internal/store"
	transport "github.com/tupatil-17/easy-shop/internal/transport/http"
	"github.com/tupatil-17/easy-shop/pkg/db"
)

const serviceName = "easy-shop"

func main() {
	cfg := config.Load()

	logger := logging.NewLogger(logging.Config{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Level:       cfg.LogLevel,
	})
	slog.SetDefault(logger)

	metrics.MustRegister(serviceName)

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	if err := gdb.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.CartItem{},
		&domain.Favourite{},
	); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	st := store.New(gdb)

	// Cache is optional; a nil *Cache turns every lookup into a miss.
	var productCache *cache.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		productCache = cache.New(client, "shop:", cfg.CacheTTL)
		logger.Info("product cache enabled", "addr", cfg.RedisAddr)
	}

	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecret, cfg.GatewayTimeout)

	mail := notify.NewDispatcher(notify.DefaultConfig(), &notify.LogSender{Logger: logger}, logger)
	if err := mail.Start(context.Background()); err != nil {
		logger.Error("mail dispatcher start failed", "error", err)
		os.Exit(1)
	}

	passwords := impl.NewPasswordServiceArgon2id()
	tokens := impl.NewTokenServiceJWT(impl.TokenConfig{
		Issuer:        cfg.Issuer,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
		AccessSecret:  []byte(cfg.AccessTokenSecret),
		RefreshSecret: []byte(cfg.RefreshTokenSecret),
	})
	auth := impl.NewAuthServiceImpl(st.Users(), passwords, tokens, mail, cfg.OTPTTL, logger)
	catalog := impl.NewCatalogServiceImpl(st.Products(), productCache, logger)
	orders := impl.NewOrderServiceImpl(st.Products(), st.Orders(), st.Users(), gateway, productCache, mail, "inr", logger)
	accounts := impl.NewAccountServiceImpl(st, logger)

	handler := transport.NewHandler(auth, tokens, catalog, orders, accounts)
	router := transport.NewRouter(handler, tokens, cfg.CORSOrigins)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		20*time.Second,
		map[string]gfshutdown.Operation{
			"http-server": func(ctx context.Context) error {
				return srv.Shutdown(ctx)
			},
			"mail-dispatcher": func(ctx context.Context) error {
				return mail.Stop(ctx)
			},
		},
	)
	exitCode := <-wait
	logger.Info("shutdown complete", "code", exitCode)
	os.Exit(exitCode)
}
