// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pagecraft/internal/database"
	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// MediaRepository implements repo.MediaRepository on PostgreSQL.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new MediaRepository on the given pool.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

const mediaColumns = `filename, original_name, content_type, size_bytes, public_url, alt_text, uploader_id, created_at`

func scanMedia(scanner interface{ Scan(...any) error }) (*models.Media, error) {
	var m models.Media
	err := scanner.Scan(
		&m.Filename, &m.OriginalName, &m.ContentType, &m.SizeBytes,
		&m.PublicURL, &m.AltText, &m.UploaderID, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ID = repo.MediaID(m.Filename)
	return &m, nil
}

// Create inserts a media record. A filename collision surfaces as a
// Conflict via the unique constraint.
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	q := database.Querier(ctx, r.db)
	err := q.QueryRowContext(ctx, `
		INSERT INTO media (filename, original_name, content_type, size_bytes, public_url, alt_text, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, media.Filename, media.OriginalName, media.ContentType, media.SizeBytes,
		media.PublicURL, media.AltText, media.UploaderID,
	).Scan(&media.CreatedAt)
	if err != nil {
		return translate("create media", media.Filename, err)
	}

	media.ID = repo.MediaID(media.Filename)
	media.Rev = ""
	return nil
}

// GetByID resolves an external ID ("media:{filename}") by filename.
func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	return r.GetByFilename(ctx, repo.LocalKey(id, repo.TypeMedia))
}

// GetByFilename retrieves a media record by its stored filename.
func (r *MediaRepository) GetByFilename(ctx context.Context, filename string) (*models.Media, error) {
	q := database.Querier(ctx, r.db)
	row := q.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE filename = $1`, filename)
	m, err := scanMedia(row)
	if err != nil {
		return nil, translate("get media", filename, err)
	}
	return m, nil
}

// Update patches the mutable metadata fields. AltText left nil and
// PublicURL left empty keep their stored values; the filename and the
// immutable upload facts never change. Rev is ignored.
func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	filename := media.Filename
	if filename == "" {
		filename = repo.LocalKey(media.ID, repo.TypeMedia)
	}

	existing, err := r.GetByFilename(ctx, filename)
	if err != nil {
		return err
	}
	merged := *existing
	if media.AltText != nil {
		merged.AltText = media.AltText
	}
	if media.PublicURL != "" {
		merged.PublicURL = media.PublicURL
	}

	q := database.Querier(ctx, r.db)
	if _, err := q.ExecContext(ctx, `
		UPDATE media SET alt_text = $1, public_url = $2 WHERE filename = $3
	`, merged.AltText, merged.PublicURL, filename); err != nil {
		return translate("update media", filename, err)
	}

	*media = merged
	media.ID = repo.MediaID(filename)
	return nil
}

// Delete resolves the row by filename and deletes it by primary key.
// Rev is ignored.
func (r *MediaRepository) Delete(ctx context.Context, id, rev string) error {
	_ = rev
	filename := repo.LocalKey(id, repo.TypeMedia)

	q := database.Querier(ctx, r.db)
	var rowID string
	if err := q.QueryRowContext(ctx, `SELECT id FROM media WHERE filename = $1`, filename).Scan(&rowID); err != nil {
		return translate("delete media", filename, err)
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM media WHERE id = $1`, rowID); err != nil {
		return translate("delete media", filename, err)
	}
	return nil
}

// List returns media records ordered by upload date.
func (r *MediaRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Media, error) {
	opts = opts.Normalize()
	q := database.Querier(ctx, r.db)
	rows, err := q.QueryContext(ctx, `
		SELECT `+mediaColumns+` FROM media `+orderBy(opts.Descending)+` LIMIT $1 OFFSET $2
	`, opts.Limit, opts.Offset)
	if err != nil {
		return nil, translate("list media", "", err)
	}
	defer rows.Close()

	var items []models.Media
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("scan media: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}
