package repository

import (
	"context"
	"errors"
	"fmt"

	"aroha/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// userRepository implements the UserRepository interface using PostgreSQL.
type userRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(pool *pgxpool.Pool, logger zerolog.Logger) UserRepository {
	return &userRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "user").Logger(),
	}
}

const userColumns = `id, name, mobile, email, password_hash, recovery_code, gender, address, details, created_at`

// Create inserts a new user.
func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (id, name, mobile, email, password_hash, recovery_code, gender, address, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Mobile, u.Email, u.PasswordHash, u.RecoveryCode,
		u.Gender, u.Address, u.Details, u.CreatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("mobile", u.Mobile).Msg("failed to create user")
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Debug().Str("user_id", u.ID.String()).Msg("user created successfully")

	return nil
}

// GetByMobile retrieves a user by mobile number.
func (r *userRepository) GetByMobile(ctx context.Context, mobile string) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE mobile = $1
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, mobile))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("mobile", mobile).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("mobile", mobile).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// GetByID retrieves a user by ID.
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1
	`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("user_id", id.String()).Msg("user not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("user_id", id.String()).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return u, nil
}

// Update persists changes to an existing user's mutable fields.
func (r *userRepository) Update(ctx context.Context, u *model.User) error {
	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, gender = $5, address = $6, details = $7
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Gender, u.Address, u.Details,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", u.ID.String()).Msg("failed to update user")
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// SetRecoveryCode stores a recovery code for the given mobile.
func (r *userRepository) SetRecoveryCode(ctx context.Context, mobile, code string) (bool, error) {
	query := `
		UPDATE users
		SET recovery_code = $2
		WHERE mobile = $1
	`

	tag, err := r.pool.Exec(ctx, query, mobile, code)
	if err != nil {
		r.logger.Error().Err(err).Str("mobile", mobile).Msg("failed to set recovery code")
		return false, fmt.Errorf("failed to set recovery code: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// CreateSession inserts a new login session.
func (r *userRepository) CreateSession(ctx context.Context, s *model.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, s.Token, s.UserID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", s.UserID.String()).Msg("failed to create session")
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by token.
func (r *userRepository) GetSession(ctx context.Context, token string) (*model.Session, error) {
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`

	var s model.Session
	err := r.pool.QueryRow(ctx, query, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query session")
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	return &s, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.Name, &u.Mobile, &u.Email, &u.PasswordHash, &u.RecoveryCode,
		&u.Gender, &u.Address, &u.Details, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
