package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/nimasrn/banking-gateway/internal/config"
	"github.com/nimasrn/banking-gateway/internal/repository"
	"github.com/nimasrn/banking-gateway/internal/services"
	"github.com/nimasrn/banking-gateway/pkg/logger"
	"github.com/nimasrn/banking-gateway/pkg/pg"
)

const usage = `usage: cli <command> [--env=path] [--dir=./migrations]

commands:
  migrate   apply pending migrations
  rollback  revert the latest migration
  seed      load the demo admin and customers`

func main() {
	logger.SetService("banking-cli")
	defer logger.Sync()

	if len(os.Args) < 2 || strings.HasPrefix(os.Args[1], "-") {
		fmt.Println(usage)
		os.Exit(2)
	}

	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Get()

	switch os.Args[1] {
	case "migrate":
		err = pg.Migrate(cfg.PostgresWrite(), getMigrationPath())
	case "rollback":
		err = pg.Rollback(cfg.PostgresWrite(), getMigrationPath())
	case "seed":
		err = seed(cfg)
	default:
		fmt.Println(usage)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("command failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
	logger.Info("command finished", "command", os.Args[1])
}

func seed(cfg *config.Config) error {
	db, err := pg.CreateReadWrite(cfg.PostgresWrite(), cfg.PostgresWrite(), false)
	if err != nil {
		return err
	}
	defer db.Close()

	return services.NewSeedService(
		repository.NewUserRepository(db),
		repository.NewCustomerRepository(db),
		repository.NewAccountRepository(db),
	).Seed(context.Background())
}

func getEnvPath() string {
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
	if _, err := os.Stat(".env"); err != nil {
		return ""
	}
	return ".env"
}

func getMigrationPath() string {
	for _, v := range os.Args {
		if strings.Contains(v, "--dir=") {
			s := strings.Split(v, "=")
			if _, err := os.Stat(s[1]); err != nil {
				logger.Error("failed to open the migrations dir, got error" + err.Error())
				return ""
			}
			return s[1]
		}
	}
	return "./migrations"
}
