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

// PostgresSessionRepository implements SessionRepository using PostgreSQL.
// Status and subject mutations are conditional UPDATEs; a zero RowsAffected
// means the compare-and-swap lost and the caller gets a terminal error.
type PostgresSessionRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewSessionRepository creates a new PostgresSessionRepository
func NewSessionRepository(db *database.Postgres, logger *zap.Logger) domain.SessionRepository {
	return &PostgresSessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresSessionRepository) Create(ctx context.Context, session *domain.AuthorizationSession) error {
	return r.db.Exec(ctx, `
		INSERT INTO sessions (id, client_id, redirect_uri, scope, code_challenge, code_challenge_method,
			resource, state, status, subject, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, session.ID, session.ClientID, session.RedirectURI, session.Scope, session.CodeChallenge,
		session.CodeChallengeMethod, session.Resource, session.State, session.Status,
		nullable(session.Subject), session.CreatedAt, session.ExpiresAt)
}

func (r *PostgresSessionRepository) Find(ctx context.Context, id string) (*domain.AuthorizationSession, error) {
	session := &domain.AuthorizationSession{}
	var subject *string

	err := r.db.QueryRow(ctx, `
		SELECT id, client_id, redirect_uri, scope, code_challenge, code_challenge_method,
			resource, state, status, subject, created_at, expires_at
		FROM sessions WHERE id = $1
	`, id).Scan(&session.ID, &session.ClientID, &session.RedirectURI, &session.Scope,
		&session.CodeChallenge, &session.CodeChallengeMethod, &session.Resource,
		&session.State, &session.Status, &subject, &session.CreatedAt, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if subject != nil {
		session.Subject = *subject
	}

	// Lazy expiry: an expired session is indistinguishable from a missing one
	if session.Expired(time.Now()) {
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

func (r *PostgresSessionRepository) BindSubject(ctx context.Context, id, subject string, next domain.SessionStatus) error {
	tag, err := r.db.ExecTag(ctx, `
		UPDATE sessions
		SET subject = $1, status = $2
		WHERE id = $3 AND status = $4 AND subject IS NULL AND expires_at > $5
	`, subject, next, id, domain.StatusInitiated, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing session from a lost swap
		existing, findErr := r.Find(ctx, id)
		if findErr != nil {
			return findErr
		}
		if existing.Subject != "" {
			return domain.ErrSubjectAlreadyBound
		}
		return domain.ErrInvalidSessionState
	}
	return nil
}

func (r *PostgresSessionRepository) UpdateStatus(ctx context.Context, id string, from, to domain.SessionStatus) error {
	tag, err := r.db.ExecTag(ctx, `
		UPDATE sessions
		SET status = $1
		WHERE id = $2 AND status = $3 AND expires_at > $4
	`, to, id, from, time.Now())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, findErr := r.Find(ctx, id); findErr != nil {
			return findErr
		}
		return domain.ErrInvalidSessionState
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
