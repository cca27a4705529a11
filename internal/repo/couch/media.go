// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package couch

import (
	"context"
	"time"

	kivik "github.com/go-kivik/kivik/v4"

	"pagecraft/internal/models"
	"pagecraft/internal/repo"
)

// MediaRepository implements repo.MediaRepository on CouchDB. Records
// are keyed "media:{filename}"; the filename is system-generated and
// unique, so filename lookup is a direct key get.
type MediaRepository struct {
	c *Client
}

func NewMediaRepository(c *Client) *MediaRepository {
	return &MediaRepository{c: c}
}

type mediaDoc struct {
	ID           string    `json:"_id"`
	Rev          string    `json:"_rev,omitempty"`
	Type         string    `json:"type"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	SizeBytes    int64     `json:"size_bytes"`
	PublicURL    string    `json:"public_url"`
	AltText      *string   `json:"alt_text,omitempty"`
	UploaderID   string    `json:"uploader_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func (d *mediaDoc) toModel() models.Media {
	return models.Media{
		ID:           d.ID,
		Filename:     d.Filename,
		OriginalName: d.OriginalName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		PublicURL:    d.PublicURL,
		AltText:      d.AltText,
		UploaderID:   d.UploaderID,
		CreatedAt:    d.CreatedAt,
		Rev:          d.Rev,
	}
}

func mediaToDoc(m *models.Media) mediaDoc {
	return mediaDoc{
		ID:           repo.MediaID(m.Filename),
		Rev:          m.Rev,
		Type:         repo.TypeMedia,
		Filename:     m.Filename,
		OriginalName: m.OriginalName,
		ContentType:  m.ContentType,
		SizeBytes:    m.SizeBytes,
		PublicURL:    m.PublicURL,
		AltText:      m.AltText,
		UploaderID:   m.UploaderID,
		CreatedAt:    m.CreatedAt,
	}
}

func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	media.CreatedAt = time.Now().UTC()
	media.ID = repo.MediaID(media.Filename)

	doc := mediaToDoc(media)
	doc.Rev = ""
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("create media", doc.ID, err)
	}
	media.Rev = rev
	return nil
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (*models.Media, error) {
	return r.GetByFilename(ctx, repo.LocalKey(id, repo.TypeMedia))
}

func (r *MediaRepository) GetByFilename(ctx context.Context, filename string) (*models.Media, error) {
	docID := repo.MediaID(filename)
	var doc mediaDoc
	if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
		return nil, translate("get media", docID, err)
	}
	media := doc.toModel()
	return &media, nil
}

// Update replaces the record, gated on Rev. In practice only AltText
// and PublicURL change after upload, but the write is a full document
// replace like every other CouchDB update here.
func (r *MediaRepository) Update(ctx context.Context, media *models.Media) error {
	doc := mediaToDoc(media)
	rev, err := r.c.db.Put(ctx, doc.ID, doc)
	if err != nil {
		return translate("update media", doc.ID, err)
	}
	media.ID = doc.ID
	media.Rev = rev
	return nil
}

func (r *MediaRepository) Delete(ctx context.Context, id, rev string) error {
	docID := repo.MediaID(repo.LocalKey(id, repo.TypeMedia))
	if rev == "" {
		var doc mediaDoc
		if err := r.c.db.Get(ctx, docID).ScanDoc(&doc); err != nil {
			return translate("delete media", docID, err)
		}
		rev = doc.Rev
	}
	if _, err := r.c.db.Delete(ctx, docID, rev); err != nil {
		return translate("delete media", docID, err)
	}
	return nil
}

func (r *MediaRepository) List(ctx context.Context, opts repo.ListOptions) ([]models.Media, error) {
	rows := r.c.queryView(ctx, "media", "by_created", listParams(opts))
	return collectMedia(rows)
}

func collectMedia(rows *kivik.ResultSet) ([]models.Media, error) {
	defer rows.Close()
	items := []models.Media{}
	for rows.Next() {
		var doc mediaDoc
		if err := rows.ScanDoc(&doc); err != nil {
			return nil, translate("scan media", "", err)
		}
		items = append(items, doc.toModel())
	}
	if err := rows.Err(); err != nil {
		return nil, translate("list media", "", err)
	}
	return items, nil
}
