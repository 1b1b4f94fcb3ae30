package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/prometria/authcore/internal/domain"
	"github.com/prometria/authcore/internal/infrastructure/database"
	"go.uber.org/zap"
)

// PostgresClientRepository implements ClientRepository using PostgreSQL
type PostgresClientRepository struct {
	db     *database.Postgres
	logger *zap.Logger
}

// NewClientRepository creates a new PostgresClientRepository
func NewClientRepository(db *database.Postgres, logger *zap.Logger) domain.ClientRepository {
	return &PostgresClientRepository{
		db:     db,
		logger: logger,
	}
}

func (r *PostgresClientRepository) Create(ctx context.Context, client *domain.Client) error {
	return r.db.Exec(ctx, `
		INSERT INTO clients (id, secret_hash, name, logo_uri, redirect_uris, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, client.ID, client.SecretHash, client.Name, client.LogoURI, client.RedirectURIs, client.RegisteredAt, client.UpdatedAt)
}

func (r *PostgresClientRepository) FindByID(ctx context.Context, id string) (*domain.Client, error) {
	client := &domain.Client{}

	err := r.db.QueryRow(ctx, `
		SELECT id, secret_hash, name, logo_uri, redirect_uris, registered_at, updated_at
		FROM clients WHERE id = $1
	`, id).Scan(&client.ID, &client.SecretHash, &client.Name, &client.LogoURI, &client.RedirectURIs, &client.RegisteredAt, &client.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, err
	}

	return client, nil
}

func (r *PostgresClientRepository) Update(ctx context.Context, client *domain.Client) error {
	return r.db.Exec(ctx, `
		UPDATE clients
		SET name = $1, logo_uri = $2, redirect_uris = $3, updated_at = $4
		WHERE id = $5
	`, client.Name, client.LogoURI, client.RedirectURIs, client.UpdatedAt, client.ID)
}

func (r *PostgresClientRepository) Delete(ctx context.Context, id string) error {
	return r.db.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
}

func (r *PostgresClientRepository) List(ctx context.Context) ([]*domain.Client, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, secret_hash, name, logo_uri, redirect_uris, registered_at, updated_at
		FROM clients
		ORDER BY registered_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*domain.Client
	for rows.Next() {
		client := &domain.Client{}
		if err := rows.Scan(&client.ID, &client.SecretHash, &client.Name, &client.LogoURI, &client.RedirectURIs, &client.RegisteredAt, &client.UpdatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
