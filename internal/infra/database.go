package infra

import (
	"context"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/*.sql
var migraciones embed.FS

// NewDatabase opens the GORM connection backed by pgx. The schema is owned by
// the goose migrations below; AutoMigrate is never run against Postgres.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// RunMigrations applies the embedded goose migrations.
func RunMigrations(db *gorm.DB) error {
	return Migrate(context.Background(), db, "up")
}

// Migrate runs a goose command (up, down, status, version, redo) over the embedded migrations.
func Migrate(ctx context.Context, db *gorm.DB, command string, args ...string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	goose.SetBaseFS(migraciones)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	log.Info().Str("cmd", command).Msg("ejecutando migraciones")
	if err := goose.RunContext(ctx, command, sqlDB, "migrations", args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}
