package repository

import (
	"context"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type StatsRepository struct {
	db *pgxpool.Pool
}

func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) PlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	s := &entities.PlatformStats{
		AssignmentsByState: map[string]int{},
		RequestsByState:    map[string]int{},
	}
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM businesses),
			(SELECT COUNT(*) FROM businesses WHERE is_active),
			(SELECT COUNT(*) FROM price_lists),
			(SELECT COUNT(*) FROM price_list_rows),
			(SELECT COUNT(*) FROM agent_conversations),
			(SELECT COUNT(*) FROM agent_messages),
			(SELECT COUNT(*) FROM incoming_requests),
			(SELECT COUNT(*) FROM invoices),
			(SELECT COALESCE(SUM(total_cents), 0)::BIGINT FROM invoices)`,
	).Scan(&s.Users, &s.Businesses, &s.ActiveBusinesses, &s.PriceLists, &s.PriceRows,
		&s.Conversations, &s.Messages, &s.Inquiries, &s.Invoices, &s.InvoicedCents)
	if err != nil {
		return nil, err
	}

	if err := r.countBy(ctx, "SELECT status, COUNT(*) FROM price_assignments GROUP BY status", s.AssignmentsByState); err != nil {
		return nil, err
	}
	if err := r.countBy(ctx, "SELECT status, COUNT(*) FROM requests GROUP BY status", s.RequestsByState); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *StatsRepository) countBy(ctx context.Context, query string, dst map[string]int) error {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return err
		}
		dst[key] = n
	}
	return rows.Err()
}
