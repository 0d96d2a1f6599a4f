package repository

import (
	"context"
	"fmt"
	"strings"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const businessColumns = `id, owner_id, name, slug, description, category, city, address, phone,
	email, website, logo_url, cover_url, is_active, telegram_chat_id, created_at, updated_at`

type BusinessRepository struct {
	db *pgxpool.Pool
}

func NewBusinessRepository(db *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func scanBusiness(row pgx.Row) (*entities.Business, error) {
	var b entities.Business
	err := row.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Slug, &b.Description, &b.Category, &b.City,
		&b.Address, &b.Phone, &b.Email, &b.Website, &b.LogoURL, &b.CoverURL, &b.IsActive,
		&b.TelegramChatID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func collectBusinesses(rows pgx.Rows, err error) ([]entities.Business, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []entities.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, *b)
	}
	return businesses, rows.Err()
}

func insertBusiness(ctx context.Context, q querier, b *entities.Business) error {
	err := q.QueryRow(ctx, `
		INSERT INTO businesses (owner_id, name, slug, description, category, city, address,
			phone, email, website, logo_url, cover_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`,
		b.OwnerID, b.Name, b.Slug, b.Description, b.Category, b.City, b.Address, b.Phone,
		b.Email, b.Website, b.LogoURL, b.CoverURL, b.IsActive,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapError(err)
}

func (r *BusinessRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM businesses WHERE slug = $1)", slug).Scan(&exists)
	return exists, err
}

func (r *BusinessRepository) Create(ctx context.Context, b *entities.Business) error {
	return insertBusiness(ctx, r.db, b)
}

func (r *BusinessRepository) GetByID(ctx context.Context, id int) (*entities.Business, error) {
	return scanBusiness(r.db.QueryRow(ctx, "SELECT "+businessColumns+" FROM businesses WHERE id = $1", id))
}

func (r *BusinessRepository) GetBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	return scanBusiness(r.db.QueryRow(ctx, "SELECT "+businessColumns+" FROM businesses WHERE slug = $1", slug))
}

func (r *BusinessRepository) ListByOwner(ctx context.Context, ownerID int) ([]entities.Business, error) {
	return collectBusinesses(r.db.Query(ctx,
		"SELECT "+businessColumns+" FROM businesses WHERE owner_id = $1 ORDER BY id", ownerID))
}

func (r *BusinessRepository) ListAll(ctx context.Context) ([]entities.Business, error) {
	return collectBusinesses(r.db.Query(ctx,
		"SELECT "+businessColumns+" FROM businesses ORDER BY created_at DESC"))
}

// SearchActive returns the public directory, optionally filtered.
func (r *BusinessRepository) SearchActive(ctx context.Context, f interfaces.BusinessFilter) ([]entities.Business, error) {
	where := []string{"is_active"}
	var args []any
	add := func(clause string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if f.City != "" {
		add("LOWER(city) = LOWER($%d)", f.City)
	}
	if f.Category != "" {
		add("LOWER(category) = LOWER($%d)", f.Category)
	}
	if f.Query != "" {
		add(`(name ILIKE $%[1]d ESCAPE '\' OR description ILIKE $%[1]d ESCAPE '\')`, containsPattern(f.Query))
	}

	query := "SELECT " + businessColumns + " FROM businesses WHERE " + strings.Join(where, " AND ") + " ORDER BY name"
	return collectBusinesses(r.db.Query(ctx, query, args...))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern matches q literally anywhere in a LIKE operand.
func containsPattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func (r *BusinessRepository) Update(ctx context.Context, b *entities.Business) error {
	err := r.db.QueryRow(ctx, `
		UPDATE businesses SET name=$1, slug=$2, description=$3, category=$4, city=$5, address=$6,
			phone=$7, email=$8, website=$9, logo_url=$10, cover_url=$11, updated_at=NOW()
		WHERE id=$12
		RETURNING updated_at`,
		b.Name, b.Slug, b.Description, b.Category, b.City, b.Address, b.Phone, b.Email,
		b.Website, b.LogoURL, b.CoverURL, b.ID,
	).Scan(&b.UpdatedAt)
	return mapError(err)
}

func (r *BusinessRepository) SetActive(ctx context.Context, id int, active bool) error {
	return affected(r.db.Exec(ctx,
		"UPDATE businesses SET is_active=$1, updated_at=NOW() WHERE id=$2", active, id))
}

// LinkTelegramChat moves a Telegram chat to the business: the chat is first
// unlinked from whichever business held it, inside the same transaction. A chat
// held by a business of another owner is not taken over (ErrConflict).
func (r *BusinessRepository) LinkTelegramChat(ctx context.Context, businessID int, chatID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var heldBy int
	err = tx.QueryRow(ctx, `
		SELECT held.id FROM businesses held
		JOIN businesses target ON target.id = $2
		WHERE held.telegram_chat_id = $1 AND held.id <> $2 AND held.owner_id <> target.owner_id
		FOR UPDATE OF held`, chatID, businessID).Scan(&heldBy)
	if err == nil {
		return ErrConflict
	}
	if err = mapError(err); err != ErrNotFound {
		return err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE businesses SET telegram_chat_id=NULL, updated_at=NOW() WHERE telegram_chat_id=$1 AND id<>$2",
		chatID, businessID); err != nil {
		return fmt.Errorf("unlink previous chat owner: %w", err)
	}
	if err := affected(tx.Exec(ctx,
		"UPDATE businesses SET telegram_chat_id=$1, updated_at=NOW() WHERE id=$2",
		chatID, businessID)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *BusinessRepository) UnlinkTelegramChat(ctx context.Context, businessID int) error {
	return affected(r.db.Exec(ctx,
		"UPDATE businesses SET telegram_chat_id=NULL, updated_at=NOW() WHERE id=$1", businessID))
}
