// cmd/seeduser/main.go: Crea/actualiza el usuario administrador inicial.
// Uso: SEED_USERNAME=admin SEED_PASSWORD=... go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/config"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/infra"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/model"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/repository"
	"github.com/raulbarbur/abysstracker-system-sub000/internal/service"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := envOr("SEED_USERNAME", "admin")
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal().Msg("SEED_PASSWORD is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	u := &model.Usuario{
		Username:     username,
		Nombre:       envOr("SEED_NOMBRE", "Administrador"),
		PasswordHash: string(hash),
		Rol:          model.RolAdmin,
		Activo:       true,
	}
	if err := repository.NewUsuarioRepository(db).Upsert(context.Background(), u); err != nil {
		log.Fatal().Err(err).Msg("upsert error")
	}
	log.Info().Str("username", username).Msg("usuario creado/actualizado")
}
