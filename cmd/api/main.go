package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nimasrn/banking-gateway/internal/config"
	"github.com/nimasrn/banking-gateway/internal/events"
	"github.com/nimasrn/banking-gateway/internal/handlers"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/internal/services"
	"github.com/nimasrn/banking-gateway/pkg/auth"
	xhttp "github.com/nimasrn/banking-gateway/pkg/http"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/pg"
	"github.com/nimasrn/banking-gateway/pkg/prom"
	"github.com/nimasrn/banking-gateway/pkg/redis"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	logger.SetService("banking-api")
	defer logger.Sync()

	err := config.Load(argContainsEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return
	}
	logger.Info("starting banking api", "version", version, "commit", commit, "date", date)

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	s := xhttp.NewServer(xhttp.DefaultServerOption)
	if cfg.HttpServerReadBufferSize > 0 {
		s.Server.ReadBufferSize = cfg.HttpServerReadBufferSize
	}
	if cfg.HttpServerWriteBufferSize > 0 {
		s.Server.WriteBufferSize = cfg.HttpServerWriteBufferSize
	}
	if cfg.HttpServerReadTimeout > 0 {
		s.Server.ReadTimeout = time.Duration(cfg.HttpServerReadTimeout) * time.Second
	}
	if cfg.HttpServerWriteTimeout > 0 {
		s.Server.WriteTimeout = time.Duration(cfg.HttpServerWriteTimeout) * time.Second
	}
	s.Use(xhttp.RecoverMiddleware)
	s.Use(xhttp.RequestIDMiddleware)
	s.Use(xhttp.RequestLoggerMiddleware)
	s.Use(prom.HTTPMiddleware)
	s.Use(xhttp.CompressMiddleware(6))
	s.Use(xhttp.TimeoutMiddleware(time.Duration(cfg.HttpRequestTimeout) * time.Second))
	s.Router = xhttp.CreateDefaultRouter()

	db, err := pg.CreateReadWrite(cfg.PostgresRead(), cfg.PostgresWrite(), cfg.AppEnv == "dev")
	if err != nil {
		logger.Error("failed connecting to pg", "error", err)
		return
	}
	defer db.Close()

	pingers := map[string]services.Pinger{"postgres": db}

	// the ledger works without redis; alerts are simply not published
	var publisher services.LedgerPublisher
	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis("banking-api"))
	if err != nil {
		logger.Warn("redis unavailable, ledger events disabled", "error", err)
	} else {
		stream, err := events.NewStream(redisAdap, events.StreamConfig{Name: cfg.LedgerStream})
		if err != nil {
			logger.Error("failed creating ledger stream", "error", err)
			return
		}
		publisher = stream
		pingers["redis"] = redisAdap
	}

	accountRepo := repository.NewAccountRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	userRepo := repository.NewUserRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	// services
	tokens := auth.NewTokenIssuer(cfg.JwtSecret, cfg.JwtExpiry)
	authService := services.NewAuthService(userRepo, customerRepo, accountRepo, tokens)
	ledgerService := services.NewLedgerService(accountRepo, transactionRepo, publisher)
	historyService := services.NewHistoryService(transactionRepo)
	accountService := services.NewAccountService(accountRepo, customerRepo, userRepo)
	userService := services.NewUserService(userRepo, customerRepo, accountRepo)
	healthService := services.NewHealthService(pingers)

	if cfg.SeedOnStart {
		if err := services.NewSeedService(userRepo, customerRepo, accountRepo).Seed(context.Background()); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			return
		}
	}

	handlers.RegisterRoutes(s.Router, handlers.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Account:     handlers.NewAccountHandler(accountService, ledgerService),
		Transaction: handlers.NewTransactionHandler(ledgerService, historyService),
		User:        handlers.NewUserHandler(userService),
		Health:      handlers.NewHealthHandler(healthService),
	}, authService)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		var err = s.ListenAndServe(cfg.HttpListenAddr)
		if err != nil {
			logger.Error("error in running http-server", "error", err)
		}
	}()

	<-c
	s.Shutdown()
}

func argContainsEnvPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--env=") {
			s := strings.Split(v, "=")
			if _, err := os.Open(s[1]); err != nil {
				logger.Error("failed to open the passed env file, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return ""
}
