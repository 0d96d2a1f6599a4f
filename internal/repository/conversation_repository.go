package repository

import (
	"context"

	"project_resident/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ConversationRepository struct {
	db *pgxpool.Pool
}

func NewConversationRepository(db *pgxpool.Pool) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) GetConversation(ctx context.Context, id string) (*entities.AgentConversation, error) {
	var c entities.AgentConversation
	err := r.db.QueryRow(ctx, `
		SELECT c.id::TEXT, c.business_id, c.visitor_id, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM agent_messages m WHERE m.conversation_id = c.id)
		FROM agent_conversations c WHERE c.id = $1`, id,
	).Scan(&c.ID, &c.BusinessID, &c.VisitorID, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount)
	if err != nil {
		return nil, mapError(err)
	}
	return &c, nil
}

func (r *ConversationRepository) CreateConversation(ctx context.Context, c *entities.AgentConversation) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO agent_conversations (id, business_id, visitor_id)
		VALUES ($1, $2, $3) RETURNING created_at, updated_at`,
		c.ID, c.BusinessID, c.VisitorID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return mapError(err)
}

func (r *ConversationRepository) AppendMessage(ctx context.Context, m *entities.AgentMessage) error {
	err := r.db.QueryRow(ctx, `
		WITH touched AS (
			UPDATE agent_conversations SET updated_at = NOW() WHERE id = $1
		)
		INSERT INTO agent_messages (conversation_id, role, content)
		VALUES ($1, $2, $3) RETURNING id, created_at`,
		m.ConversationID, m.Role, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
	return mapError(err)
}

// RecentMessages returns the last `limit` messages in chronological order.
func (r *ConversationRepository) RecentMessages(ctx context.Context, conversationID string, limit int) ([]entities.AgentMessage, error) {
	return r.messages(ctx, `
		SELECT * FROM (
			SELECT id, conversation_id::TEXT, role, content, created_at
			FROM agent_messages WHERE conversation_id = $1
			ORDER BY id DESC LIMIT $2
		) recent ORDER BY id`, conversationID, limit)
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]entities.AgentMessage, error) {
	return r.messages(ctx, `
		SELECT id, conversation_id::TEXT, role, content, created_at
		FROM agent_messages WHERE conversation_id = $1 ORDER BY id`, conversationID)
}

func (r *ConversationRepository) messages(ctx context.Context, query string, args ...any) ([]entities.AgentMessage, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.AgentMessage{}
	for rows.Next() {
		var m entities.AgentMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ConversationRepository) ListConversations(ctx context.Context, businessID int) ([]entities.AgentConversation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id::TEXT, c.business_id, c.visitor_id, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM agent_messages m WHERE m.conversation_id = c.id)
		FROM agent_conversations c WHERE c.business_id = $1
		ORDER BY c.updated_at DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.AgentConversation{}
	for rows.Next() {
		var c entities.AgentConversation
		if err := rows.Scan(&c.ID, &c.BusinessID, &c.VisitorID, &c.CreatedAt, &c.UpdatedAt, &c.MessageCount); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type InquiryRepository struct {
	db *pgxpool.Pool
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepository {
	return &InquiryRepository{db: db}
}

func (r *InquiryRepository) CreateInquiry(ctx context.Context, in *entities.IncomingRequest) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO incoming_requests (business_id, conversation_id, customer_name, contact, message, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		in.BusinessID, in.ConversationID, in.CustomerName, in.Contact, in.Message, in.Status,
	).Scan(&in.ID, &in.CreatedAt)
	return mapError(err)
}

func (r *InquiryRepository) ListInquiries(ctx context.Context, businessID int) ([]entities.IncomingRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, business_id, conversation_id::TEXT, customer_name, contact, message, status, created_at
		FROM incoming_requests WHERE business_id = $1 ORDER BY created_at DESC`, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entities.IncomingRequest{}
	for rows.Next() {
		var in entities.IncomingRequest
		if err := rows.Scan(&in.ID, &in.BusinessID, &in.ConversationID, &in.CustomerName,
			&in.Contact, &in.Message, &in.Status, &in.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InquiryRepository) UpdateInquiryStatus(ctx context.Context, businessID, id int, status string) error {
	return affected(r.db.Exec(ctx,
		"UPDATE incoming_requests SET status=$1 WHERE business_id=$2 AND id=$3", status, businessID, id))
}
