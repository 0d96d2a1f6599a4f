package entities

import "time"

// Business is a resident's tenant: the owner edits it in the office, and the
// public showcase renders it once an admin has activated it.
type Business struct {
	ID             int       `json:"id"`
	OwnerID        int       `json:"owner_id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	City           string    `json:"city"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Website        string    `json:"website"`
	LogoURL        string    `json:"logo_url"`
	CoverURL       string    `json:"cover_url"`
	IsActive       bool      `json:"is_active"`
	TelegramChatID *int64    `json:"telegram_chat_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type PortfolioItem struct {
	ID          int             `json:"id"`
	BusinessID  int             `json:"business_id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Position    int             `json:"position"`
	Photos      []BusinessPhoto `json:"photos"`
	CreatedAt   time.Time       `json:"created_at"`
}

type BusinessPhoto struct {
	ID              int    `json:"id"`
	BusinessID      int    `json:"business_id"`
	PortfolioItemID *int   `json:"portfolio_item_id,omitempty"`
	URL             string `json:"url"`
	Caption         string `json:"caption"`
	Position        int    `json:"position"`
}

// Showcase is the public view of an active business.
type Showcase struct {
	Business   Business        `json:"business"`
	Portfolio  []PortfolioItem `json:"portfolio"`
	PriceLists []PriceList     `json:"price_lists"`
}
