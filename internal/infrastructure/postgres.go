package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

func NewPostgresClient(ctx context.Context, connString string, log *zap.Logger) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool, log: log}
	if err := client.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

// schema is applied in order on every start; each statement is idempotent.
var schema = []struct {
	name string
	ddl  string
}{
	{"users", `
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'resident',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"businesses", `
		CREATE TABLE IF NOT EXISTS businesses (
			id SERIAL PRIMARY KEY,
			owner_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(64) UNIQUE NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(100) NOT NULL DEFAULT '',
			city VARCHAR(100) NOT NULL DEFAULT '',
			address VARCHAR(255) NOT NULL DEFAULT '',
			phone VARCHAR(50) NOT NULL DEFAULT '',
			email VARCHAR(255) NOT NULL DEFAULT '',
			website VARCHAR(255) NOT NULL DEFAULT '',
			logo_url TEXT NOT NULL DEFAULT '',
			cover_url TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			telegram_chat_id BIGINT UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"portfolio_items", `
		CREATE TABLE IF NOT EXISTS portfolio_items (
			id SERIAL PRIMARY KEY,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"business_photos", `
		CREATE TABLE IF NOT EXISTS business_photos (
			id SERIAL PRIMARY KEY,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			portfolio_item_id INT REFERENCES portfolio_items(id) ON DELETE CASCADE,
			url TEXT NOT NULL,
			caption VARCHAR(255) NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0
		)`},
	{"price_lists", `
		CREATE TABLE IF NOT EXISTS price_lists (
			id SERIAL PRIMARY KEY,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			title VARCHAR(255) NOT NULL,
			currency VARCHAR(10) NOT NULL DEFAULT 'RUB',
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"price_list_rows", `
		CREATE TABLE IF NOT EXISTS price_list_rows (
			id SERIAL PRIMARY KEY,
			price_list_id INT NOT NULL REFERENCES price_lists(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			unit VARCHAR(30) NOT NULL DEFAULT '',
			price_cents BIGINT NOT NULL DEFAULT 0,
			sku VARCHAR(100) NOT NULL DEFAULT '',
			position INT NOT NULL DEFAULT 0
		)`},
	{"price_assignments", `
		CREATE TABLE IF NOT EXISTS price_assignments (
			id SERIAL PRIMARY KEY,
			price_list_id INT NOT NULL REFERENCES price_lists(id) ON DELETE CASCADE,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			responded_at TIMESTAMPTZ,
			UNIQUE (price_list_id, business_id)
		)`},
	{"requests", `
		CREATE TABLE IF NOT EXISTS requests (
			id SERIAL PRIMARY KEY,
			buyer_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			supplier_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			status VARCHAR(20) NOT NULL DEFAULT 'SENT',
			comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"request_items", `
		CREATE TABLE IF NOT EXISTS request_items (
			id SERIAL PRIMARY KEY,
			request_id INT NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			quantity DOUBLE PRECISION NOT NULL,
			unit VARCHAR(30) NOT NULL DEFAULT '',
			unit_price_cents BIGINT NOT NULL DEFAULT 0,
			price_list_row_id INT REFERENCES price_list_rows(id) ON DELETE SET NULL,
			picked_quantity DOUBLE PRECISION
		)`},
	{"picker_assignments", `
		CREATE TABLE IF NOT EXISTS picker_assignments (
			id SERIAL PRIMARY KEY,
			request_id INT NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
			token UUID UNIQUE NOT NULL,
			picker_name VARCHAR(255) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'ACTIVE',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"picker_assignments_one_active", `
		CREATE UNIQUE INDEX IF NOT EXISTS picker_assignments_one_active
			ON picker_assignments (request_id) WHERE status = 'ACTIVE'`},
	{"agent_conversations", `
		CREATE TABLE IF NOT EXISTS agent_conversations (
			id UUID PRIMARY KEY,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			visitor_id VARCHAR(100) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"agent_messages", `
		CREATE TABLE IF NOT EXISTS agent_messages (
			id SERIAL PRIMARY KEY,
			conversation_id UUID NOT NULL REFERENCES agent_conversations(id) ON DELETE CASCADE,
			role VARCHAR(20) NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"incoming_requests", `
		CREATE TABLE IF NOT EXISTS incoming_requests (
			id SERIAL PRIMARY KEY,
			business_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			conversation_id UUID REFERENCES agent_conversations(id) ON DELETE SET NULL,
			customer_name VARCHAR(255) NOT NULL DEFAULT '',
			contact VARCHAR(255) NOT NULL,
			message TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'NEW',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`},
	{"invoices", `
		CREATE TABLE IF NOT EXISTS invoices (
			id SERIAL PRIMARY KEY,
			request_id INT UNIQUE NOT NULL REFERENCES requests(id) ON DELETE CASCADE,
			supplier_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			buyer_id INT NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
			seq INT NOT NULL,
			number VARCHAR(50) NOT NULL,
			total_cents BIGINT NOT NULL,
			lines JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (supplier_id, seq)
		)`},
}

func (p *PostgresClient) Migrate(ctx context.Context) error {
	for _, step := range schema {
		if _, err := p.Pool.Exec(ctx, step.ddl); err != nil {
			return fmt.Errorf("create %s: %w", step.name, err)
		}
	}

	var count int
	if err := p.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count == 0 && p.log != nil {
		p.log.Info("database initialized, users table empty; admin will be ensured by application logic")
	}
	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
