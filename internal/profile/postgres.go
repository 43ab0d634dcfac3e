package profile

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the profile schema migrations to the pool's
// database.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	sqlDB := stdlib.OpenDBFromPool(pool)
	defer sqlDB.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "migrations"); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// PostgresRepository stores profiles in the hero_profiles table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgres connects to dsn and returns a repository. Call
// RunMigrations before first use.
func NewPostgres(ctx context.Context, dsn string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &PostgresRepository{db: pool}, nil
}

// Pool returns the underlying pgx pool.
func (r *PostgresRepository) Pool() *pgxpool.Pool { return r.db }

// Close closes the pool.
func (r *PostgresRepository) Close() { r.db.Close() }

// Save upserts a profile.
func (r *PostgresRepository) Save(ctx context.Context, doc *Document) error {
	data, err := doc.Encode()
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO hero_profiles (hero_id, version, document, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (hero_id) DO UPDATE
		SET version = EXCLUDED.version, document = EXCLUDED.document, saved_at = EXCLUDED.saved_at
	`, doc.HeroID, doc.Version, data, doc.SavedAt)
	if err != nil {
		return fmt.Errorf("saving profile %s: %w", doc.HeroID, err)
	}
	return nil
}

// Load reads and migrates a profile.
func (r *PostgresRepository) Load(ctx context.Context, heroID string) (*Document, error) {
	var data []byte
	err := r.db.QueryRow(ctx, `SELECT document FROM hero_profiles WHERE hero_id = $1`, heroID).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile %s: %w", heroID, err)
	}
	return Decode(data)
}

// List returns every stored hero id in order.
func (r *PostgresRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT hero_id FROM hero_profiles ORDER BY hero_id`)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning profile ids: %w", err)
	}
	return ids, nil
}

// Delete removes a profile.
func (r *PostgresRepository) Delete(ctx context.Context, heroID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM hero_profiles WHERE hero_id = $1`, heroID)
	if err != nil {
		return fmt.Errorf("deleting profile %s: %w", heroID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
