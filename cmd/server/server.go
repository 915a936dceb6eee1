package main

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/cobra"

	"github.com/mistwood/cultivation-api/internal/catalog"
	httphandler "github.com/mistwood/cultivation-api/internal/handlers/http"
	"github.com/mistwood/cultivation-api/internal/orchestrators/beast"
	"github.com/mistwood/cultivation-api/internal/orchestrators/character"
	"github.com/mistwood/cultivation-api/internal/orchestrators/progression"
	"github.com/mistwood/cultivation-api/internal/orchestrators/secretrealm"
	"github.com/mistwood/cultivation-api/internal/orchestrators/sect"
	"github.com/mistwood/cultivation-api/internal/pkg/clock"
	"github.com/mistwood/cultivation-api/internal/pkg/idgen"
	"github.com/mistwood/cultivation-api/internal/pkg/rng"
	"github.com/mistwood/cultivation-api/internal/redis"
	beastrepo "github.com/mistwood/cultivation-api/internal/repositories/beast"
	charrepo "github.com/mistwood/cultivation-api/internal/repositories/character"
	"github.com/mistwood/cultivation-api/internal/repositories/cultivation"
	"github.com/mistwood/cultivation-api/internal/repositories/realmprogress"
	sectrepo "github.com/mistwood/cultivation-api/internal/repositories/sect"
	"github.com/mistwood/cultivation-api/internal/storage/tx"
)

type serverConfig struct {
	RedisAddress string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	HTTPAddress  string `env:"HTTP_ADDRESS" envDefault:":8080"`
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP server",
	Long:  `Start the cultivation API HTTP server with all engines wired to redis.`,
	RunE:  runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	var cfg serverConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	client, err := redis.NewClient(cfg.RedisAddress, nil)
	if err != nil {
		return fmt.Errorf("redis client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			slog.Warn("closing redis client", "error", closeErr)
		}
	}()

	handler, err := buildHandler(client)
	if err != nil {
		return err
	}

	s := server.Default(server.WithHostPorts(cfg.HTTPAddress))
	handler.RegisterRoutes(s)

	slog.Info("server listening",
		"http_address", cfg.HTTPAddress,
		"redis_address", cfg.RedisAddress,
	)
	s.Spin()
	return nil
}

// buildHandler wires the repositories, the tx manager and the engines.
// The catalog is loaded once here and injected everywhere.
func buildHandler(client redis.Client) (httphandler.Handler, error) {
	var handler httphandler.Handler

	realClock := clock.New()
	roller := rng.New()
	cat := catalog.Default()

	charRepo, err := charrepo.NewRedis(&charrepo.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return handler, fmt.Errorf("character repository: %w", err)
	}
	cultRepo, err := cultivation.NewRedis(&cultivation.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return handler, fmt.Errorf("cultivation repository: %w", err)
	}
	bRepo, err := beastrepo.NewRedis(&beastrepo.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return handler, fmt.Errorf("beast repository: %w", err)
	}
	sRepo, err := sectrepo.NewRedis(&sectrepo.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return handler, fmt.Errorf("sect repository: %w", err)
	}
	progRepo, err := realmprogress.NewRedis(&realmprogress.RedisConfig{Client: client, Clock: realClock})
	if err != nil {
		return handler, fmt.Errorf("realm progress repository: %w", err)
	}

	manager, err := tx.New(&tx.Config{Client: client})
	if err != nil {
		return handler, fmt.Errorf("tx manager: %w", err)
	}

	chars, err := character.NewOrchestrator(&character.Config{
		CharacterRepo: charRepo,
		Catalog:       cat,
	})
	if err != nil {
		return handler, fmt.Errorf("character orchestrator: %w", err)
	}

	prog, err := progression.NewOrchestrator(&progression.Config{
		CharacterRepo:   charRepo,
		CultivationRepo: cultRepo,
		TxManager:       manager,
		Catalog:         cat,
		Clock:           realClock,
		Roller:          roller,
	})
	if err != nil {
		return handler, fmt.Errorf("progression orchestrator: %w", err)
	}

	beasts, err := beast.NewOrchestrator(&beast.Config{
		BeastRepo:     bRepo,
		CharacterRepo: charRepo,
		TxManager:     manager,
		Catalog:       cat,
		Clock:         realClock,
		Roller:        roller,
		IDGenerator:   idgen.NewPrefixed("beast"),
	})
	if err != nil {
		return handler, fmt.Errorf("beast orchestrator: %w", err)
	}

	sects, err := sect.NewOrchestrator(&sect.Config{
		SectRepo:      sRepo,
		CharacterRepo: charRepo,
		TxManager:     manager,
		Clock:         realClock,
		IDGenerator:   idgen.NewUUID("sect"),
	})
	if err != nil {
		return handler, fmt.Errorf("sect orchestrator: %w", err)
	}

	realms, err := secretrealm.NewOrchestrator(&secretrealm.Config{
		CharacterRepo: charRepo,
		BeastRepo:     bRepo,
		ProgressRepo:  progRepo,
		TxManager:     manager,
		Catalog:       cat,
		Clock:         realClock,
		Roller:        roller,
	})
	if err != nil {
		return handler, fmt.Errorf("secret realm orchestrator: %w", err)
	}

	return httphandler.Handler{
		Characters:   chars,
		Progression:  prog,
		Beasts:       beasts,
		Sects:        sects,
		SecretRealms: realms,
	}, nil
}
