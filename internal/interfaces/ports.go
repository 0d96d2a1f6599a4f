package interfaces

import (
	"context"
	"time"

	"project_resident/internal/entities"
)

type UserStore interface {
	CreateResident(ctx context.Context, user *entities.User, business *entities.Business) error
	Create(ctx context.Context, user *entities.User) error
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	GetByID(ctx context.Context, id int) (*entities.User, error)
	UpdatePassword(ctx context.Context, id int, hash string) error
}

// BusinessFilter narrows the public directory listing.
type BusinessFilter struct {
	City     string
	Category string
	Query    string
}

type BusinessStore interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, b *entities.Business) error
	GetByID(ctx context.Context, id int) (*entities.Business, error)
	GetBySlug(ctx context.Context, slug string) (*entities.Business, error)
	ListByOwner(ctx context.Context, ownerID int) ([]entities.Business, error)
	ListAll(ctx context.Context) ([]entities.Business, error)
	SearchActive(ctx context.Context, f BusinessFilter) ([]entities.Business, error)
	Update(ctx context.Context, b *entities.Business) error
	SetActive(ctx context.Context, id int, active bool) error
	LinkTelegramChat(ctx context.Context, businessID int, chatID int64) error
	UnlinkTelegramChat(ctx context.Context, businessID int) error
}

type PortfolioStore interface {
	ListItems(ctx context.Context, businessID int) ([]entities.PortfolioItem, error)
	GetItem(ctx context.Context, businessID, itemID int) (*entities.PortfolioItem, error)
	CreateItem(ctx context.Context, item *entities.PortfolioItem) error
	UpdateItem(ctx context.Context, item *entities.PortfolioItem) error
	DeleteItem(ctx context.Context, businessID, itemID int) error
	AddPhoto(ctx context.Context, photo *entities.BusinessPhoto) error
	DeletePhoto(ctx context.Context, businessID, photoID int) error
}

type PriceStore interface {
	ListPriceLists(ctx context.Context, businessID int, publicOnly bool) ([]entities.PriceList, error)
	GetPriceList(ctx context.Context, businessID, listID int) (*entities.PriceList, error)
	CreatePriceList(ctx context.Context, list *entities.PriceList) error
	UpdatePriceList(ctx context.Context, list *entities.PriceList) error
	DeletePriceList(ctx context.Context, businessID, listID int) error
	ReplaceRows(ctx context.Context, listID int, rows []entities.PriceListRow) error

	UpsertAssignment(ctx context.Context, listID, partnerID int) (*entities.PriceAssignment, error)
	GetAssignment(ctx context.Context, id int) (*entities.PriceAssignment, error)
	SetAssignmentStatus(ctx context.Context, id int, status string) error
	ListIncomingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error)
	ListOutgoingAssignments(ctx context.Context, businessID int) ([]entities.PriceAssignment, error)
	ActiveSupplierRows(ctx context.Context, buyerID int) ([]entities.SupplierRow, error)
}

type RequestStore interface {
	CreateRequest(ctx context.Context, r *entities.Request) error
	GetRequest(ctx context.Context, id int) (*entities.Request, error)
	ListRequests(ctx context.Context, businessID int, incoming bool) ([]entities.Request, error)
	TransitionRequest(ctx context.Context, id int, from []string, to string) error
	SetPickedQuantity(ctx context.Context, requestID, itemID int, qty float64) error

	CreatePickerAssignment(ctx context.Context, a *entities.PickerAssignment) error
	GetPickerAssignment(ctx context.Context, token string) (*entities.PickerAssignment, error)
	CompletePicking(ctx context.Context, assignmentID, requestID int) error
}

type InvoiceStore interface {
	CreateInvoice(ctx context.Context, inv *entities.Invoice) error
	GetInvoice(ctx context.Context, id int) (*entities.Invoice, error)
	ListInvoices(ctx context.Context, businessID int) ([]entities.Invoice, error)
}

type ConversationStore interface {
	GetConversation(ctx context.Context, id string) (*entities.AgentConversation, error)
	CreateConversation(ctx context.Context, c *entities.AgentConversation) error
	AppendMessage(ctx context.Context, m *entities.AgentMessage) error
	RecentMessages(ctx context.Context, conversationID string, limit int) ([]entities.AgentMessage, error)
	ListConversations(ctx context.Context, businessID int) ([]entities.AgentConversation, error)
	ListMessages(ctx context.Context, conversationID string) ([]entities.AgentMessage, error)
}

type InquiryStore interface {
	CreateInquiry(ctx context.Context, in *entities.IncomingRequest) error
	ListInquiries(ctx context.Context, businessID int) ([]entities.IncomingRequest, error)
	UpdateInquiryStatus(ctx context.Context, businessID, id int, status string) error
}

type StatsStore interface {
	PlatformStats(ctx context.Context) (*entities.PlatformStats, error)
}

// Notifier delivers a short text to a business owner.
type Notifier interface {
	Notify(ctx context.Context, b *entities.Business, text string) error
}

// ChatGateway produces the assistant's next reply for a conversation.
type ChatGateway interface {
	Reply(ctx context.Context, systemPrompt string, history []entities.AgentMessage) (string, error)
}

// TurnGuard serialises chat turns per conversation.
type TurnGuard interface {
	TryAcquire(conversationID string) bool
	Release(conversationID string)
}

// VisitorLimiter throttles anonymous chat visitors.
type VisitorLimiter interface {
	Allow(visitorID string) bool
	// WaitTime is how long the visitor has to wait before Allow succeeds.
	WaitTime(visitorID string) time.Duration
}

// WhatsAppDevice is the admin-paired device owner notifications are sent from.
type WhatsAppDevice interface {
	Status() entities.DeviceStatus
	QR() string
	Logout(ctx context.Context) error
}
