package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cbodonnell/rocketjam/pkg/game/types"
	"github.com/cbodonnell/rocketjam/pkg/log"
	"github.com/cbodonnell/rocketjam/pkg/repositories/models"
	"github.com/mattn/go-sqlite3"
)

var _ Repository = &SQLiteRepository{}

type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository opens the database at path and applies every migration
// found in migrations. Migrations must be idempotent since they run on every start.
func NewSQLiteRepository(ctx context.Context, path string, migrations string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	pending, err := readMigrations(migrations)
	if err != nil {
		db.Close()
		return nil, err
	}
	for _, m := range pending {
		if _, err := db.ExecContext(ctx, m.sql); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute migration %s: %v", m.name, err)
		}
		log.Debug("Applied sqlite migration %s", m.name)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) FindUserByID(ctx context.Context, id types.UserID) (*models.User, error) {
	q := `SELECT id, username, hashed_password FROM users WHERE id = ?;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *SQLiteRepository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	q := `SELECT id, username, hashed_password FROM users WHERE username = ?;`
	return r.scanUser(r.db.QueryRowContext(ctx, q, username))
}

func (r *SQLiteRepository) CreateUser(ctx context.Context, username string, hashedPassword string) (*models.User, error) {
	q := `INSERT INTO users (username, hashed_password) VALUES (?, ?);`
	result, err := r.db.ExecContext(ctx, q, username, hashedPassword)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, &ErrNameExists{}
		}
		return nil, fmt.Errorf("failed to insert user: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %v", err)
	}

	return &models.User{
		ID:             types.UserID(id),
		Username:       username,
		HashedPassword: hashedPassword,
	}, nil
}

func (r *SQLiteRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	if err := row.Scan(&user.ID, &user.Username, &user.HashedPassword); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &ErrNotFound{}
		}
		return nil, fmt.Errorf("failed to scan user: %v", err)
	}
	return user, nil
}
