package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

// BusinessInput is the editable part of a business profile. Slug is only
// regenerated when set.
type BusinessInput struct {
	Name        string  `json:"name"`
	Slug        *string `json:"slug,omitempty"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	City        string  `json:"city"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email"`
	Website     string  `json:"website"`
	LogoURL     string  `json:"logo_url"`
	CoverURL    string  `json:"cover_url"`
}

func (in BusinessInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	urls := []struct{ field, value string }{
		{"website", in.Website},
		{"logo_url", in.LogoURL},
		{"cover_url", in.CoverURL},
	}
	for _, u := range urls {
		if u.value != "" && !isHTTPURL(u.value) {
			return fmt.Errorf("%w: %s must be an http(s) URL", ErrInvalidInput, u.field)
		}
	}
	return nil
}

func (in BusinessInput) apply(b *entities.Business) {
	b.Name = strings.TrimSpace(in.Name)
	b.Description = strings.TrimSpace(in.Description)
	b.Category = strings.TrimSpace(in.Category)
	b.City = strings.TrimSpace(in.City)
	b.Address = strings.TrimSpace(in.Address)
	b.Phone = strings.TrimSpace(in.Phone)
	b.Email = strings.TrimSpace(in.Email)
	b.Website = strings.TrimSpace(in.Website)
	b.LogoURL = strings.TrimSpace(in.LogoURL)
	b.CoverURL = strings.TrimSpace(in.CoverURL)
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

type BusinessUsecase struct {
	access
	businesses interfaces.BusinessStore
	portfolio  interfaces.PortfolioStore
	prices     interfaces.PriceStore
}

func NewBusinessUsecase(businesses interfaces.BusinessStore, portfolio interfaces.PortfolioStore, prices interfaces.PriceStore) *BusinessUsecase {
	return &BusinessUsecase{
		access:     access{businesses: businesses},
		businesses: businesses,
		portfolio:  portfolio,
		prices:     prices,
	}
}

func (uc *BusinessUsecase) ListOwn(ctx context.Context, actor Actor) ([]entities.Business, error) {
	return uc.businesses.ListByOwner(ctx, actor.UserID)
}

// Create adds another business for the caller. New businesses start inactive.
func (uc *BusinessUsecase) Create(ctx context.Context, actor Actor, in BusinessInput) (*entities.Business, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	base := in.Name
	if in.Slug != nil && strings.TrimSpace(*in.Slug) != "" {
		base = *in.Slug
	}
	var b *entities.Business
	err := insertWithSlug(ctx, Slugify(base), uc.businesses.SlugExists, func(slug string) error {
		b = &entities.Business{OwnerID: actor.UserID, Slug: slug}
		in.apply(b)
		return uc.businesses.Create(ctx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("create business: %w", err)
	}
	return b, nil
}

func (uc *BusinessUsecase) Get(ctx context.Context, actor Actor, id int) (*entities.Business, error) {
	return uc.ownedBusiness(ctx, actor, id)
}

func (uc *BusinessUsecase) Update(ctx context.Context, actor Actor, id int, in BusinessInput) (*entities.Business, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	b, err := uc.ownedBusiness(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.Slug != nil {
		wanted := Slugify(*in.Slug)
		if wanted != b.Slug {
			slug, err := UniqueSlug(ctx, wanted, uc.businesses.SlugExists)
			if err != nil {
				return nil, err
			}
			b.Slug = slug
		}
	}
	in.apply(b)

	if err := uc.businesses.Update(ctx, b); err != nil {
		return nil, fmt.Errorf("update business %d: %w", id, err)
	}
	return b, nil
}

// Directory lists active businesses for the public catalogue.
func (uc *BusinessUsecase) Directory(ctx context.Context, f interfaces.BusinessFilter) ([]entities.Business, error) {
	f.City = strings.TrimSpace(f.City)
	f.Category = strings.TrimSpace(f.Category)
	f.Query = strings.TrimSpace(f.Query)
	return uc.businesses.SearchActive(ctx, f)
}

// ActiveBySlug resolves a public business; inactive ones are reported as not found.
func (uc *BusinessUsecase) ActiveBySlug(ctx context.Context, slug string) (*entities.Business, error) {
	b, err := uc.businesses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("business %q: %w", slug, err)
	}
	if !b.IsActive {
		return nil, fmt.Errorf("business %q: %w: %w", slug, ErrInactive, ErrNotFound)
	}
	return b, nil
}

func (uc *BusinessUsecase) Showcase(ctx context.Context, slug string) (*entities.Showcase, error) {
	b, err := uc.ActiveBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	items, err := uc.portfolio.ListItems(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("load portfolio: %w", err)
	}
	lists, err := uc.prices.ListPriceLists(ctx, b.ID, true)
	if err != nil {
		return nil, fmt.Errorf("load price lists: %w", err)
	}

	public := *b
	public.TelegramChatID = nil
	return &entities.Showcase{Business: public, Portfolio: items, PriceLists: lists}, nil
}

// LinkTelegram binds a Telegram chat to the business, taking it away from
// another business of the same owner. Chats of other owners are refused.
func (uc *BusinessUsecase) LinkTelegram(ctx context.Context, actor Actor, id int, chatID int64) error {
	if chatID == 0 {
		return fmt.Errorf("%w: chat_id is required", ErrInvalidInput)
	}
	if _, err := uc.ownedBusiness(ctx, actor, id); err != nil {
		return err
	}
	if err := uc.businesses.LinkTelegramChat(ctx, id, chatID); err != nil {
		if errors.Is(err, ErrConflict) {
			return fmt.Errorf("%w: chat is linked to another owner's business", ErrConflict)
		}
		return err
	}
	return nil
}

func (uc *BusinessUsecase) UnlinkTelegram(ctx context.Context, actor Actor, id int) error {
	if _, err := uc.ownedBusiness(ctx, actor, id); err != nil {
		return err
	}
	return uc.businesses.UnlinkTelegramChat(ctx, id)
}
