package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/smartcareer/smartcareer-go/internal/models"
)

// PostgresUserRepository implements user persistence against a PostgreSQL
// database, for stub-server deployments that outlive a process.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the
// given database connection. db must be a valid *sql.DB connected to a
// PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

const userColumns = `id, email, full_name, phone, role, is_verified, is_active`

// CreateUser inserts a new user with the given password hash. A unique
// violation on the email column is reported as ErrEmailTaken.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User, passwordHash string) (models.User, error) {
	u.ID = uuid.NewString()
	u.IsActive = true
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, full_name, phone, role, is_verified, is_active, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, u.ID, u.Email, u.FullName, u.Phone, u.Role, u.IsVerified, u.IsActive, passwordHash)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// UserByEmail fetches the user and password hash for an email.
func (r *PostgresUserRepository) UserByEmail(ctx context.Context, email string) (models.User, string, error) {
	var u models.User
	var hash string
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+`, password_hash FROM users WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.IsVerified, &u.IsActive, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, "", ErrNotFound
	}
	if err != nil {
		return models.User{}, "", fmt.Errorf("select user by email: %w", err)
	}
	return u, hash, nil
}

// UserByID fetches the user with the given id.
func (r *PostgresUserRepository) UserByID(ctx context.Context, id string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.IsVerified, &u.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("select user by id: %w", err)
	}
	return u, nil
}

// UpdateUser writes the mutable identity fields back and returns the
// stored record.
func (r *PostgresUserRepository) UpdateUser(ctx context.Context, u models.User) (models.User, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET full_name = $2, phone = $3, is_verified = $4, is_active = $5 WHERE id = $1
	`, u.ID, u.FullName, u.Phone, u.IsVerified, u.IsActive)
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return models.User{}, ErrNotFound
	}
	return u, nil
}

// UpdatePassword replaces the stored password hash.
func (r *PostgresUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE users SET password_hash = $2 WHERE id = $1
	`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return ErrNotFound
	}
	return nil
}

// PasswordHash returns the stored hash for a user id.
func (r *PostgresUserRepository) PasswordHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := r.DB.QueryRowContext(ctx, `
		SELECT password_hash FROM users WHERE id = $1
	`, id).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select password hash: %w", err)
	}
	return hash, nil
}
