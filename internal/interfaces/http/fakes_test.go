package http

import (
	"context"
	"sync"
	"time"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
	"project_resident/internal/repository"
)

// The in-memory stores below embed their interface and implement only what
// the routes under test reach; anything else panics.

type memUsers struct {
	interfaces.UserStore
	mu         sync.Mutex
	users      []entities.User
	businesses *memBusinesses
}

func (m *memUsers) Create(ctx context.Context, u *entities.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return repository.ErrConflict
		}
	}
	u.ID = len(m.users) + 1
	m.users = append(m.users, *u)
	return nil
}

func (m *memUsers) CreateResident(ctx context.Context, u *entities.User, b *entities.Business) error {
	if err := m.Create(ctx, u); err != nil {
		return err
	}
	b.OwnerID = u.ID
	return m.businesses.Create(ctx, b)
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id int) (*entities.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memBusinesses struct {
	interfaces.BusinessStore
	mu    sync.Mutex
	items []*entities.Business
}

func (m *memBusinesses) find(id int) *entities.Business {
	for _, b := range m.items {
		if b.ID == id {
			return b
		}
	}
	return nil
}

func (m *memBusinesses) SlugExists(ctx context.Context, slug string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.items {
		if b.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m *memBusinesses) Create(ctx context.Context, b *entities.Business) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.ID = len(m.items) + 1
	cp := *b
	m.items = append(m.items, &cp)
	return nil
}

func (m *memBusinesses) GetByID(ctx context.Context, id int) (*entities.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b := m.find(id); b != nil {
		cp := *b
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memBusinesses) GetBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.items {
		if b.Slug == slug {
			cp := *b
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memBusinesses) ListByOwner(ctx context.Context, ownerID int) ([]entities.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entities.Business{}
	for _, b := range m.items {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBusinesses) ListAll(ctx context.Context) ([]entities.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entities.Business{}
	for _, b := range m.items {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memBusinesses) SearchActive(ctx context.Context, f interfaces.BusinessFilter) ([]entities.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []entities.Business{}
	for _, b := range m.items {
		if b.IsActive && (f.City == "" || b.City == f.City) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBusinesses) SetActive(ctx context.Context, id int, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.find(id)
	if b == nil {
		return repository.ErrNotFound
	}
	b.IsActive = active
	return nil
}

func (m *memBusinesses) LinkTelegramChat(ctx context.Context, businessID int, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.find(businessID)
	if b == nil {
		return repository.ErrNotFound
	}
	for _, other := range m.items {
		if other.TelegramChatID == nil || *other.TelegramChatID != chatID || other.ID == businessID {
			continue
		}
		if other.OwnerID != b.OwnerID {
			return repository.ErrConflict
		}
		other.TelegramChatID = nil
	}
	b.TelegramChatID = &chatID
	return nil
}

type memPortfolio struct {
	interfaces.PortfolioStore
}

func (memPortfolio) ListItems(ctx context.Context, businessID int) ([]entities.PortfolioItem, error) {
	return []entities.PortfolioItem{}, nil
}

type memPrices struct {
	interfaces.PriceStore
}

func (memPrices) ListPriceLists(ctx context.Context, businessID int, publicOnly bool) ([]entities.PriceList, error) {
	return []entities.PriceList{}, nil
}

type memConversations struct {
	interfaces.ConversationStore
	mu       sync.Mutex
	convs    []entities.AgentConversation
	messages []entities.AgentMessage
}

func (m *memConversations) CreateConversation(ctx context.Context, c *entities.AgentConversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.convs = append(m.convs, *c)
	return nil
}

func (m *memConversations) GetConversation(ctx context.Context, id string) (*entities.AgentConversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.convs {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memConversations) AppendMessage(ctx context.Context, msg *entities.AgentMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = len(m.messages) + 1
	m.messages = append(m.messages, *msg)
	return nil
}

type memStats struct{}

func (memStats) PlatformStats(ctx context.Context) (*entities.PlatformStats, error) {
	return &entities.PlatformStats{Users: 2, Businesses: 1}, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(string) bool { return false }

func (denyLimiter) WaitTime(string) time.Duration { return 2500 * time.Millisecond }

type fakeDevice struct {
	status    entities.DeviceStatus
	qr        string
	loggedOut bool
}

func (d *fakeDevice) Status() entities.DeviceStatus { return d.status }
func (d *fakeDevice) QR() string                    { return d.qr }

func (d *fakeDevice) Logout(ctx context.Context) error {
	d.loggedOut = true
	return nil
}
