package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatHistoryLimit   = 20
	maxChatMessage     = 2000
	maxVisitorIDLength = 100
	maxPromptPriceRows = 200
)

type ChatInput struct {
	ConversationID string `json:"conversation_id"`
	VisitorID      string `json:"visitor_id"`
	Message        string `json:"message"`
}

type ChatReply struct {
	ConversationID string                 `json:"conversation_id"`
	Reply          string                 `json:"reply"`
	Message        *entities.AgentMessage `json:"message"`
}

type InquiryInput struct {
	CustomerName   string  `json:"customer_name"`
	Contact        string  `json:"contact"`
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// ChatService runs the showcase chat widget and the owner's inbox.
type ChatService struct {
	access
	ownerNotifier
	businesses    interfaces.BusinessStore
	prices        interfaces.PriceStore
	conversations interfaces.ConversationStore
	inquiries     interfaces.InquiryStore
	gateway       interfaces.ChatGateway
	guard         interfaces.TurnGuard
	limiter       interfaces.VisitorLimiter
	log           *zap.Logger
}

type ChatDeps struct {
	Businesses    interfaces.BusinessStore
	Prices        interfaces.PriceStore
	Conversations interfaces.ConversationStore
	Inquiries     interfaces.InquiryStore
	Gateway       interfaces.ChatGateway // nil answers with FallbackReply
	Guard         interfaces.TurnGuard
	Limiter       interfaces.VisitorLimiter
	Notifier      interfaces.Notifier
}

func NewChatService(deps ChatDeps, log *zap.Logger) *ChatService {
	return &ChatService{
		access:        access{businesses: deps.Businesses},
		ownerNotifier: ownerNotifier{notifier: deps.Notifier, log: log},
		businesses:    deps.Businesses,
		prices:        deps.Prices,
		conversations: deps.Conversations,
		inquiries:     deps.Inquiries,
		gateway:       deps.Gateway,
		guard:         deps.Guard,
		limiter:       deps.Limiter,
		log:           log,
	}
}

// RetryAfter returns how long a rate limited visitor should wait.
func (s *ChatService) RetryAfter(visitorID string) time.Duration {
	if s.limiter == nil {
		return 0
	}
	return s.limiter.WaitTime(visitorID)
}

func (s *ChatService) activeBusiness(ctx context.Context, slug string) (*entities.Business, error) {
	b, err := s.businesses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("business %q: %w", slug, err)
	}
	if !b.IsActive {
		return nil, fmt.Errorf("business %q: %w: %w", slug, ErrInactive, ErrNotFound)
	}
	return b, nil
}

// BuildSystemPrompt describes the business and its public prices to the model.
func BuildSystemPrompt(b *entities.Business, lists []entities.PriceList) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "You are the online assistant of %q. Answer visitors briefly and politely, "+
		"in the language they write in. Only use the facts below; if you do not know something, "+
		"suggest leaving contact details so the owner can follow up.\n\n", b.Name)

	facts := []struct{ label, value string }{
		{"About", b.Description},
		{"Category", b.Category},
		{"City", b.City},
		{"Address", b.Address},
		{"Phone", b.Phone},
		{"Email", b.Email},
		{"Website", b.Website},
	}
	for _, f := range facts {
		if f.value != "" {
			fmt.Fprintf(&sb, "%s: %s\n", f.label, f.value)
		}
	}

	rows := 0
	for _, l := range lists {
		if len(l.Rows) == 0 || rows >= maxPromptPriceRows {
			continue
		}
		fmt.Fprintf(&sb, "\nPrice list %q (%s):\n", l.Title, l.Currency)
		for _, r := range l.Rows {
			if rows >= maxPromptPriceRows {
				break
			}
			fmt.Fprintf(&sb, "- %s: %s", r.Name, FormatCents(r.PriceCents))
			if r.Unit != "" {
				fmt.Fprintf(&sb, " per %s", r.Unit)
			}
			sb.WriteByte('\n')
			rows++
		}
	}
	return sb.String()
}

// FormatCents renders 123456 as "1234.56".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign, cents = "-", -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// FallbackReply is used when no AI provider is configured or it fails.
func FallbackReply(b *entities.Business) string {
	var contacts []string
	if b.Phone != "" {
		contacts = append(contacts, "phone "+b.Phone)
	}
	if b.Email != "" {
		contacts = append(contacts, "email "+b.Email)
	}
	reply := fmt.Sprintf("Thank you for your message! %s will get back to you soon. "+
		"Please leave your name and contact details using the request form.", b.Name)
	if len(contacts) > 0 {
		reply += " You can also reach us by " + strings.Join(contacts, " or ") + "."
	}
	return reply
}

func (s *ChatService) conversationFor(ctx context.Context, b *entities.Business, in ChatInput) (*entities.AgentConversation, error) {
	if in.ConversationID == "" {
		conv := &entities.AgentConversation{
			ID:         uuid.NewString(),
			BusinessID: b.ID,
			VisitorID:  in.VisitorID,
		}
		if err := s.conversations.CreateConversation(ctx, conv); err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		return conv, nil
	}

	if _, err := uuid.Parse(in.ConversationID); err != nil {
		return nil, fmt.Errorf("conversation: %w", ErrNotFound)
	}
	conv, err := s.conversations.GetConversation(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation %s: %w", in.ConversationID, err)
	}
	if conv.BusinessID != b.ID || conv.VisitorID != in.VisitorID {
		return nil, fmt.Errorf("conversation %s: %w", in.ConversationID, ErrNotFound)
	}
	return conv, nil
}

// Chat stores the visitor's message, asks the gateway for a reply over the
// recent history and stores that too.
func (s *ChatService) Chat(ctx context.Context, slug string, in ChatInput) (*ChatReply, error) {
	in.VisitorID = strings.TrimSpace(in.VisitorID)
	in.Message = strings.TrimSpace(in.Message)
	if in.VisitorID == "" || len(in.VisitorID) > maxVisitorIDLength {
		return nil, fmt.Errorf("%w: visitor_id is required", ErrInvalidInput)
	}
	if in.Message == "" {
		return nil, fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Message) > maxChatMessage {
		return nil, fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, maxChatMessage)
	}

	b, err := s.activeBusiness(ctx, slug)
	if err != nil {
		return nil, err
	}
	if s.limiter != nil && !s.limiter.Allow(in.VisitorID) {
		return nil, ErrRateLimited
	}

	conv, err := s.conversationFor(ctx, b, in)
	if err != nil {
		return nil, err
	}
	if s.guard != nil {
		if !s.guard.TryAcquire(conv.ID) {
			return nil, ErrBusy
		}
		defer s.guard.Release(conv.ID)
	}

	userMsg := &entities.AgentMessage{ConversationID: conv.ID, Role: entities.MessageRoleUser, Content: in.Message}
	if err := s.conversations.AppendMessage(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	reply := s.reply(ctx, b, conv.ID)
	botMsg := &entities.AgentMessage{ConversationID: conv.ID, Role: entities.MessageRoleAssistant, Content: reply}
	if err := s.conversations.AppendMessage(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}
	return &ChatReply{ConversationID: conv.ID, Reply: reply, Message: botMsg}, nil
}

func (s *ChatService) reply(ctx context.Context, b *entities.Business, conversationID string) string {
	if s.gateway == nil {
		return FallbackReply(b)
	}

	history, err := s.conversations.RecentMessages(ctx, conversationID, chatHistoryLimit)
	if err != nil {
		s.log.Error("load chat history", zap.String("conversation_id", conversationID), zap.Error(err))
		return FallbackReply(b)
	}
	lists, err := s.prices.ListPriceLists(ctx, b.ID, true)
	if err != nil {
		s.log.Warn("load public prices for prompt", zap.Int("business_id", b.ID), zap.Error(err))
		lists = nil
	}

	text, err := s.gateway.Reply(ctx, BuildSystemPrompt(b, lists), history)
	if err != nil || strings.TrimSpace(text) == "" {
		s.log.Error("chat gateway failed",
			zap.Int("business_id", b.ID),
			zap.String("conversation_id", conversationID),
			zap.Error(err))
		return FallbackReply(b)
	}
	return strings.TrimSpace(text)
}

// CreateInquiry records a visitor's contact request and tells the owner.
func (s *ChatService) CreateInquiry(ctx context.Context, slug string, in InquiryInput) (*entities.IncomingRequest, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.Contact = strings.TrimSpace(in.Contact)
	in.Message = strings.TrimSpace(in.Message)
	if in.Contact == "" {
		return nil, fmt.Errorf("%w: contact is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(in.Message) > maxChatMessage {
		return nil, fmt.Errorf("%w: message is longer than %d characters", ErrInvalidInput, maxChatMessage)
	}

	b, err := s.activeBusiness(ctx, slug)
	if err != nil {
		return nil, err
	}

	inquiry := &entities.IncomingRequest{
		BusinessID:   b.ID,
		CustomerName: in.CustomerName,
		Contact:      in.Contact,
		Message:      in.Message,
		Status:       entities.InquiryNew,
	}
	if in.ConversationID != nil && *in.ConversationID != "" {
		if _, err := uuid.Parse(*in.ConversationID); err != nil {
			return nil, fmt.Errorf("conversation: %w", ErrNotFound)
		}
		conv, err := s.conversations.GetConversation(ctx, *in.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("conversation %s: %w", *in.ConversationID, err)
		}
		if conv.BusinessID != b.ID {
			return nil, fmt.Errorf("conversation %s: %w", conv.ID, ErrNotFound)
		}
		inquiry.ConversationID = &conv.ID
	}

	if err := s.inquiries.CreateInquiry(ctx, inquiry); err != nil {
		return nil, fmt.Errorf("create inquiry: %w", err)
	}

	name := inquiry.CustomerName
	if name == "" {
		name = "A visitor"
	}
	text := fmt.Sprintf("New inquiry for %s\n%s (%s)", b.Name, name, inquiry.Contact)
	if inquiry.Message != "" {
		text += "\n" + inquiry.Message
	}
	s.notify(ctx, b, text)
	return inquiry, nil
}

func (s *ChatService) ListConversations(ctx context.Context, actor Actor, businessID int) ([]entities.AgentConversation, error) {
	if _, err := s.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return s.conversations.ListConversations(ctx, businessID)
}

func (s *ChatService) ListMessages(ctx context.Context, actor Actor, businessID int, conversationID string) ([]entities.AgentMessage, error) {
	if _, err := s.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(conversationID); err != nil {
		return nil, fmt.Errorf("conversation: %w", ErrNotFound)
	}
	conv, err := s.conversations.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, err)
	}
	if conv.BusinessID != businessID {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrNotFound)
	}
	return s.conversations.ListMessages(ctx, conversationID)
}

func (s *ChatService) ListInquiries(ctx context.Context, actor Actor, businessID int) ([]entities.IncomingRequest, error) {
	if _, err := s.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return s.inquiries.ListInquiries(ctx, businessID)
}

func (s *ChatService) UpdateInquiryStatus(ctx context.Context, actor Actor, businessID, inquiryID int, status string) error {
	switch status {
	case entities.InquiryNew, entities.InquiryInProgress, entities.InquiryClosed:
	default:
		return fmt.Errorf("%w: unknown inquiry status %q", ErrInvalidInput, status)
	}
	if _, err := s.ownedBusiness(ctx, actor, businessID); err != nil {
		return err
	}
	return s.inquiries.UpdateInquiryStatus(ctx, businessID, inquiryID, status)
}
