package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"api-registry/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateAPI persists a new API registration record. The store assigns a
// random UUID when the record does not carry one, along with the creation
// and update timestamps.
func (r *Repository) CreateAPI(ctx context.Context, api *models.API) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert", "apis", start, err) }()

	if api.ID == uuid.Nil {
		api.ID = uuid.New()
	}
	now := time.Now().UTC()
	api.CreatedAt = now
	api.UpdatedAt = now
	if api.Tags == nil {
		api.Tags = []string{}
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO apis (id, name, description, base_url, version, owner_id, documentation_url, tags, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, api.ID, api.Name, api.Description, api.BaseURL, api.Version, api.OwnerID, api.DocumentationURL, api.Tags, api.Metadata, api.CreatedAt, api.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create api: %w", err)
	}

	return nil
}

// ListAPIs returns all registration records in insertion order
func (r *Repository) ListAPIs(ctx context.Context) (apis []models.API, err error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { observe("list", "apis", start, err) }()

	rows, err := r.db.Query(ctx, `
		SELECT id, name, description, base_url, version, owner_id, documentation_url, tags, metadata, created_at, updated_at
		FROM apis
		ORDER BY created_at ASC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query apis: %w", err)
	}
	defer rows.Close()

	apis = []models.API{}
	for rows.Next() {
		var a models.API
		err := rows.Scan(&a.ID, &a.Name, &a.Description, &a.BaseURL, &a.Version, &a.OwnerID, &a.DocumentationURL, &a.Tags, &a.Metadata, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan api: %w", err)
		}
		apis = append(apis, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating apis: %w", err)
	}

	return apis, nil
}

// GetAPI returns a single registration record by id.
// Returns ErrNotFound when no record has that identifier.
func (r *Repository) GetAPI(ctx context.Context, id uuid.UUID) (api *models.API, err error) {
	if err := r.checkDB(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() { observe("get", "apis", start, err) }()

	var a models.API
	err = r.db.QueryRow(ctx, `
		SELECT id, name, description, base_url, version, owner_id, documentation_url, tags, metadata, created_at, updated_at
		FROM apis WHERE id = $1
	`, id).Scan(&a.ID, &a.Name, &a.Description, &a.BaseURL, &a.Version, &a.OwnerID, &a.DocumentationURL, &a.Tags, &a.Metadata, &a.CreatedAt, &a.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query api: %w", err)
	}

	return &a, nil
}

// UpdateAPI overwrites the mutable fields of an existing record.
// Returns ErrNotFound when no record has that identifier.
func (r *Repository) UpdateAPI(ctx context.Context, api *models.API) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("update", "apis", start, err) }()

	api.UpdatedAt = time.Now().UTC()

	tag, err := r.db.Exec(ctx, `
		UPDATE apis
		SET name = $2, description = $3, base_url = $4, version = $5, owner_id = $6, documentation_url = $7, tags = $8, metadata = $9, updated_at = $10
		WHERE id = $1
	`, api.ID, api.Name, api.Description, api.BaseURL, api.Version, api.OwnerID, api.DocumentationURL, api.Tags, api.Metadata, api.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to update api: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAPI removes a registration record and its health checks.
// Returns ErrNotFound when no record has that identifier.
func (r *Repository) DeleteAPI(ctx context.Context, id uuid.UUID) (err error) {
	if err := r.checkDB(); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("delete", "apis", start, err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM apis WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete api: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
