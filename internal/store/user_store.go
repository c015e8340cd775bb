package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/isdelr/auth-service-be/internal/models"
)

// ErrDuplicateUsername is returned when an insert collides with an existing
// username. Uniqueness is enforced by the database, not by the caller.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the credential store: durable storage of usernames, password
// hashes and emails.
type UserStore interface {
	CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	Ping(ctx context.Context) error
}

// DB is the subset of pgxpool.Pool the store needs. pgxmock satisfies it in
// tests.
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// PostgresUserStore implements UserStore over a pgx connection pool. Each call
// checks a connection out of the pool and returns it before the call ends.
type PostgresUserStore struct {
	db DB
}

// NewPostgresUserStore creates a new PostgresUserStore.
func NewPostgresUserStore(db DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

// CreateUser inserts a new user and returns the id the database assigned.
func (s *PostgresUserStore) CreateUser(ctx context.Context, username, passwordHash, email string) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		"INSERT INTO users (username, password_hash, email) VALUES ($1, $2, $3) RETURNING id",
		username, passwordHash, email,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, ErrDuplicateUsername
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

// GetUserByUsername retrieves a user with their password hash.
func (s *PostgresUserStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.QueryRow(ctx,
		"SELECT id, username, password_hash, email FROM users WHERE username = $1",
		username,
	).Scan(&user.ID, &user.Username, &user.PasswordHash, &user.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return user, nil
}

// Ping checks out a connection and releases it, verifying the store is
// reachable.
func (s *PostgresUserStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
