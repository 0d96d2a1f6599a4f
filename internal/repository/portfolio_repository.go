package repository

import (
	"context"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PortfolioRepository struct {
	db *pgxpool.Pool
}

func NewPortfolioRepository(db *pgxpool.Pool) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// ListItems returns the portfolio with photos attached, ordered by position.
func (r *PortfolioRepository) ListItems(ctx context.Context, businessID int) ([]entities.PortfolioItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, title, description, position, created_at
		FROM portfolio_items WHERE business_id = $1 ORDER BY position, id`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []entities.PortfolioItem{}
	index := map[int]int{}
	for rows.Next() {
		var it entities.PortfolioItem
		if err := rows.Scan(&it.ID, &it.BusinessID, &it.Title, &it.Description, &it.Position, &it.CreatedAt); err != nil {
			return nil, err
		}
		it.Photos = []entities.BusinessPhoto{}
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	photos, err := r.photos(ctx, "business_id = $1", businessID)
	if err != nil {
		return nil, err
	}
	for _, p := range photos {
		if p.PortfolioItemID == nil {
			continue
		}
		if i, ok := index[*p.PortfolioItemID]; ok {
			items[i].Photos = append(items[i].Photos, p)
		}
	}
	return items, nil
}

func (r *PortfolioRepository) GetItem(ctx context.Context, businessID, itemID int) (*entities.PortfolioItem, error) {
	var it entities.PortfolioItem
	err := r.db.QueryRow(ctx, `
		SELECT id, business_id, title, description, position, created_at
		FROM portfolio_items WHERE business_id = $1 AND id = $2`, businessID, itemID,
	).Scan(&it.ID, &it.BusinessID, &it.Title, &it.Description, &it.Position, &it.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	it.Photos, err = r.photos(ctx, "portfolio_item_id = $1", itemID)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *PortfolioRepository) photos(ctx context.Context, where string, arg int) ([]entities.BusinessPhoto, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, portfolio_item_id, url, caption, position
		FROM business_photos WHERE `+where+` ORDER BY position, id`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	photos := []entities.BusinessPhoto{}
	for rows.Next() {
		var p entities.BusinessPhoto
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.PortfolioItemID, &p.URL, &p.Caption, &p.Position); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func (r *PortfolioRepository) CreateItem(ctx context.Context, item *entities.PortfolioItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO portfolio_items (business_id, title, description, position)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		item.BusinessID, item.Title, item.Description, item.Position,
	).Scan(&item.ID, &item.CreatedAt)
	return mapError(err)
}

func (r *PortfolioRepository) UpdateItem(ctx context.Context, item *entities.PortfolioItem) error {
	return affected(r.db.Exec(ctx, `
		UPDATE portfolio_items SET title=$1, description=$2, position=$3
		WHERE business_id=$4 AND id=$5`,
		item.Title, item.Description, item.Position, item.BusinessID, item.ID))
}

// DeleteItem removes the item; its photos go with it via ON DELETE CASCADE.
func (r *PortfolioRepository) DeleteItem(ctx context.Context, businessID, itemID int) error {
	return affected(r.db.Exec(ctx,
		"DELETE FROM portfolio_items WHERE business_id=$1 AND id=$2", businessID, itemID))
}

func (r *PortfolioRepository) AddPhoto(ctx context.Context, photo *entities.BusinessPhoto) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO business_photos (business_id, portfolio_item_id, url, caption, position)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		photo.BusinessID, photo.PortfolioItemID, photo.URL, photo.Caption, photo.Position,
	).Scan(&photo.ID)
	return mapError(err)
}

func (r *PortfolioRepository) DeletePhoto(ctx context.Context, businessID, photoID int) error {
	return affected(r.db.Exec(ctx,
		"DELETE FROM business_photos WHERE business_id=$1 AND id=$2", businessID, photoID))
}
