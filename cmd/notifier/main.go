package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nimasrn/banking-gateway/internal/config"
	"github.com/nimasrn/banking-gateway/internal/events"
	gateway "github.com/nimasrn/banking-gateway/internal/gateways"
	"github.com/nimasrn/banking-gateway/internal/notifier"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/prom"
	"github.com/nimasrn/banking-gateway/pkg/redis"
)

func main() {
	logger.SetService("banking-notifier")
	defer logger.Sync()

	if err := config.Load(argContainsEnvPath()); err != nil {
		logger.Error("failed to load config", "error", err)
		return
	}
	cfg := config.Get()

	if cfg.AppDebugMetricsAddr != "" {
		host, _ := os.Hostname()
		if err := prom.Create(host, cfg.AppEnv, cfg.PromNamespace); err != nil {
			logger.Error("failed to register metrics", "error", err)
			return
		}
		go prom.ListenAndServer(cfg.AppDebugMetricsAddr, cfg.AppDebugMetricsURI)
	}

	redisAdap, err := redis.NewRedisAdapter("default", cfg.RedisUniversalKeyPrefix, cfg.Redis("banking-notifier"))
	if err != nil {
		logger.Error("failed connecting to redis", "error", err)
		return
	}

	stream, err := events.NewStream(redisAdap, events.StreamConfig{
		Name:          cfg.LedgerStream,
		ConsumerGroup: cfg.NotifierConsumerGroup,
		ConsumerName:  cfg.NotifierConsumerName,
		BatchSize:     cfg.NotifierBatchSize,
		Block:         cfg.NotifierBlock,
		ClaimIdle:     cfg.NotifierClaimIdle,
	})
	if err != nil {
		logger.Error("failed creating ledger stream", "error", err)
		return
	}

	dedupeCfg := notifier.DefaultDedupeConfig()
	dedupeCfg.DoneTTL = cfg.NotifierDedupeTTL

	var sink notifier.AlertSink = notifier.NewLogSink()
	if providers := cfg.AlertProviders(); len(providers) > 0 {
		gw, err := gateway.NewClient(gateway.Config{
			Providers:               providers,
			Timeout:                 cfg.NotifierWebhookTimeout,
			CircuitBreakerThreshold: cfg.NotifierWebhookBreakerThreshold,
			CircuitBreakerTimeout:   cfg.NotifierWebhookBreakerTimeout,
		})
		if err != nil {
			logger.Error("failed creating alert gateway", "error", err)
			return
		}
		defer gw.Close()
		sink = notifier.NewGatewaySink(gw)
	}

	svc := notifier.NewService(stream, notifier.NewDeduper(redisAdap, dedupeCfg), sink, notifier.Config{
		Workers: cfg.NotifierWorkers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx); err != nil {
		logger.Error("notifier exited", "error", err)
	}
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
