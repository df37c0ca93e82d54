// cmd/migrate/main.go: Ejecuta las migraciones embebidas con goose.
// Uso: go run ./cmd/migrate [up|down|status|redo|version] [args...]
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	command := "up"
	var args []string
	if len(os.Args) > 1 {
		command = os.Args[1]
		args = os.Args[2:]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := infra.Migrate(context.Background(), db, command, args...); err != nil {
		log.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	log.Info().Str("command", command).Msg("migrations done")
}
