package repository

import (
	"context"
	"database/sql"
	"errors"

	"operateease/internal/models"
)

var ErrResetNotFound = errors.New("reset record not found")

type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	GetValidByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error)
	Delete(ctx context.Context, id string) error
}

type passwordResetRepository struct {
	db *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Create(ctx context.Context, reset *models.PasswordReset) error {
	query := `
		INSERT INTO password_resets (id, user_id, token_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	return r.db.QueryRowContext(ctx, query, reset.ID, reset.UserID, reset.TokenHash, reset.ExpiresAt, reset.CreatedAt).Scan(&reset.CreatedAt)
}

// GetValidByTokenHash looks a record up directly by its token hash. Expired
// rows are filtered here rather than swept by any background job.
func (r *passwordResetRepository) GetValidByTokenHash(ctx context.Context, tokenHash string) (*models.PasswordReset, error) {
	query := `
		SELECT id, user_id, token_hash, expires_at, created_at
		FROM password_resets
		WHERE token_hash = $1
		AND expires_at >= (NOW() AT TIME ZONE 'UTC')
		ORDER BY created_at DESC
		LIMIT 1
	`

	var p models.PasswordReset
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(&p.ID, &p.UserID, &p.TokenHash, &p.ExpiresAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *passwordResetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM password_resets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetNotFound
	}
	return nil
}
