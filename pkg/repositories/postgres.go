package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/repositories/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var _ Repository = &PostgresRepository{}

// pgUniqueViolation is the SQLSTATE of a unique constraint violation.
const pgUniqueViolation = "23505"

type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository connects to connStr and applies every migration
// found in migrations. The caller is responsible for calling Close() on the repository.
func NewPostgresRepository(ctx context.Context, connStr string, migrations string) (*PostgresRepository, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %v", err)
	}

	var username string
	var database string
	err = pool.QueryRow(ctx, "SELECT current_user, current_database()").Scan(&username, &database)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to query database: %v", err)
	}
	log.Info("Connected to %s as %s", database, username)

	pending, err := readMigrations(migrations)
	if err != nil {
		pool.Close()
		return nil, err
	}
	for _, m := range pending {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.name, err)
		}
		log.Debug("Applied postgres migration %s", m.name)
	}

	return &PostgresRepository{
		pool: pool,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	r.pool.Close()
	return nil
}

func (r *PostgresRepository) FindUserByID(ctx context.Context, id types.UserID) (*models.User, error) {
	q := `SELECT id, username, hashed_password FROM users WHERE id = $1;`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *PostgresRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT id, username, hashed_password FROM users WHERE username = $1;`
	return r.scanUser(r.pool.QueryRow(ctx, q, username))
}

func (r *PostgresRepository) CreateUser(ctx context.Context, username string, hashedPassword string) (*models.User, error) {
	q := `
	INSERT INTO users (username, hashed_password) VALUES ($1, $2)
	RETURNING id, username, hashed_password;
	`
	user, err := r.scanUser(r.pool.QueryRow(ctx, q, username, hashedPassword))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, &ErrNameExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}
	return user, nil
}

func (r *PostgresRepository) scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.HashedPassword); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}
