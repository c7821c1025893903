package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator aplica las migraciones embebidas con goose sobre el pool de pgx.
type Migrator struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMigrator abre un *sql.DB sobre el pool (driver pgx/stdlib). Close libera solo ese wrapper.
func NewMigrator(pool *pgxpool.Pool, log zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: log})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, err
	}
	return &Migrator{db: stdlib.OpenDBFromPool(pool), log: log}, nil
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		if isNoMigrationErr(err) {
			m.log.Info().Msg("no hay migraciones pendientes")
			return nil
		}
		return err
	}
	m.log.Info().Msg("migraciones aplicadas")
	return nil
}

// Down revierte steps migraciones (mínimo 1).
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		if err := goose.DownContext(ctx, m.db, migrationsDir); err != nil {
			if isNoMigrationErr(err) {
				m.log.Info().Msg("no hay migraciones para revertir")
				return nil
			}
			return err
		}
	}
	m.log.Info().Int("steps", steps).Msg("migraciones revertidas")
	return nil
}

// Status imprime el estado de cada migración vía el logger de goose.
func (m *Migrator) Status(ctx context.Context) error {
	return goose.StatusContext(ctx, m.db, migrationsDir)
}

// Close cierra el wrapper database/sql.
func (m *Migrator) Close() error {
	return m.db.Close()
}

func isNoMigrationErr(err error) bool {
	if errors.Is(err, goose.ErrNoNextVersion) || errors.Is(err, goose.ErrNoMigrationFiles) {
		return true
	}
	return strings.Contains(err.Error(), "no migrations")
}

type gooseLogger struct {
	log zerolog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msgf(strings.TrimSuffix(format, "\n"), v...)
}
