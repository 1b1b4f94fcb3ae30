package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometria/authcore/internal/domain"
	"github.com/prometria/authcore/internal/infrastructure/database"
	"go.uber.org/zap"
)

// PostgresCodeRepository implements CodeRepository using PostgreSQL.
type PostgresCodeRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewCodeRepository creates a new PostgresCodeRepository
func NewCodeRepository(db *database.Postgres, logger *zap.Logger) domain.CodeRepository {
	return &PostgresCodeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresCodeRepository) Create(ctx context.Context, code *domain.AuthorizationCode) error {
	return r.db.Exec(ctx, `
		INSERT INTO authorization_codes (code, session_id, subject, client_id, redirect_uri, resource,
			scope, code_challenge, code_challenge_method, consumed, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, code.Code, code.SessionID, code.Subject, code.ClientID, code.RedirectURI, code.Resource,
		code.Scope, code.CodeChallenge, code.CodeChallengeMethod, code.Consumed, code.CreatedAt, code.ExpiresAt)
}

// Consume flips the consumed flag and returns the record in one statement.
// The WHERE clause is the whole single-use guarantee: of any number of
// concurrent redemptions, exactly one sees a row.
func (r *PostgresCodeRepository) Consume(ctx context.Context, code string, now time.Time) (*domain.AuthorizationCode, error) {
	authCode := &domain.AuthorizationCode{}

	err := r.db.QueryRow(ctx, `
		UPDATE authorization_codes
		SET consumed = TRUE
		WHERE code = $1 AND consumed = FALSE AND expires_at > $2
		RETURNING code, session_id, subject, client_id, redirect_uri, resource,
			scope, code_challenge, code_challenge_method, consumed, created_at, expires_at
	`, code, now).Scan(&authCode.Code, &authCode.SessionID, &authCode.Subject, &authCode.ClientID,
		&authCode.RedirectURI, &authCode.Resource, &authCode.Scope, &authCode.CodeChallenge,
		&authCode.CodeChallengeMethod, &authCode.Consumed, &authCode.CreatedAt, &authCode.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, err
	}

	return authCode, nil
}
