package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MediaRewrite reports how many stored URLs matched a storage prefix.
type MediaRewrite struct {
	Photos int64 `json:"photos"`
	Logos  int64 `json:"logos"`
	Covers int64 `json:"covers"`
}

func (m MediaRewrite) Total() int64 {
	return m.Photos + m.Logos + m.Covers
}

// MediaRepository rewrites stored media URLs when files move to another bucket or CDN.
type MediaRepository struct {
	db *pgxpool.Pool
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{db: db}
}

// RewritePrefix replaces the `from` prefix with `to` on every photo, logo and
// cover URL in one transaction. With dryRun the transaction is rolled back.
func (r *MediaRepository) RewritePrefix(ctx context.Context, from, to string, dryRun bool) (MediaRewrite, error) {
	var res MediaRewrite
	if from == "" {
		return res, fmt.Errorf("source prefix is empty")
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return res, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []struct {
		sql string
		dst *int64
	}{
		{`UPDATE business_photos SET url = $2 || SUBSTRING(url FROM LENGTH($1) + 1)
			WHERE LEFT(url, LENGTH($1)) = $1`, &res.Photos},
		{`UPDATE businesses SET logo_url = $2 || SUBSTRING(logo_url FROM LENGTH($1) + 1)
			WHERE LEFT(logo_url, LENGTH($1)) = $1`, &res.Logos},
		{`UPDATE businesses SET cover_url = $2 || SUBSTRING(cover_url FROM LENGTH($1) + 1)
			WHERE LEFT(cover_url, LENGTH($1)) = $1`, &res.Covers},
	}
	for _, step := range steps {
		tag, err := tx.Exec(ctx, step.sql, from, to)
		if err != nil {
			return MediaRewrite{}, fmt.Errorf("rewrite media urls: %w", err)
		}
		*step.dst = tag.RowsAffected()
	}

	if dryRun {
		return res, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return MediaRewrite{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return res, nil
}
