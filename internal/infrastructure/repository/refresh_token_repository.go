package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/prometria/authcore/internal/domain"
	"github.com/prometria/authcore/internal/infrastructure/database"
	"go.uber.org/zap"
)

// PostgresRefreshTokenRepository implements RefreshTokenRepository using
// PostgreSQL. Rotation runs in a transaction so the predecessor's revocation
// and the successor's creation are a single visible step.
type PostgresRefreshTokenRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewRefreshTokenRepository creates a new PostgresRefreshTokenRepository
func NewRefreshTokenRepository(db *database.Postgres, logger *zap.Logger) domain.RefreshTokenRepository {
	return &PostgresRefreshTokenRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresRefreshTokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (id, subject, client_id, scope, resource, predecessor_id, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, token.ID, token.Subject, token.ClientID, token.Scope, token.Resource,
		nullable(token.PredecessorID), token.Revoked, token.CreatedAt)
}

func (r *PostgresRefreshTokenRepository) Find(ctx context.Context, id string) (*domain.RefreshToken, error) {
	token := &domain.RefreshToken{}
	var predecessor *string

	err := r.db.QueryRow(ctx, `
		SELECT id, subject, client_id, scope, resource, predecessor_id, revoked, created_at
		FROM refresh_tokens WHERE id = $1
	`, id).Scan(&token.ID, &token.Subject, &token.ClientID, &token.Scope, &token.Resource,
		&predecessor, &token.Revoked, &token.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRefreshTokenNotFound
		}
		return nil, err
	}
	if predecessor != nil {
		token.PredecessorID = *predecessor
	}

	return token, nil
}

func (r *PostgresRefreshTokenRepository) Rotate(ctx context.Context, id string, successor *domain.RefreshToken) error {
	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Either the token never existed or a concurrent rotation won
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrRefreshTokenRevoked
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO refresh_tokens (id, subject, client_id, scope, resource, predecessor_id, revoked, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, successor.ID, successor.Subject, successor.ClientID, successor.Scope, successor.Resource,
		nullable(successor.PredecessorID), successor.Revoked, successor.CreatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}
