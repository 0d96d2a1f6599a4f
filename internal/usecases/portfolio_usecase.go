package usecases

import (
	"context"
	"fmt"
	"strings"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

type PortfolioItemInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type PhotoInput struct {
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Position int    `json:"position"`
}

type PortfolioUsecase struct {
	access
	portfolio interfaces.PortfolioStore
}

func NewPortfolioUsecase(businesses interfaces.BusinessStore, portfolio interfaces.PortfolioStore) *PortfolioUsecase {
	return &PortfolioUsecase{access: access{businesses: businesses}, portfolio: portfolio}
}

func (uc *PortfolioUsecase) List(ctx context.Context, actor Actor, businessID int) ([]entities.PortfolioItem, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.portfolio.ListItems(ctx, businessID)
}

func (uc *PortfolioUsecase) Get(ctx context.Context, actor Actor, businessID, itemID int) (*entities.PortfolioItem, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	return uc.portfolio.GetItem(ctx, businessID, itemID)
}

func (uc *PortfolioUsecase) Create(ctx context.Context, actor Actor, businessID int, in PortfolioItemInput) (*entities.PortfolioItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}

	item := &entities.PortfolioItem{
		BusinessID:  businessID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Position:    in.Position,
		Photos:      []entities.BusinessPhoto{},
	}
	if err := uc.portfolio.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *PortfolioUsecase) Update(ctx context.Context, actor Actor, businessID, itemID int, in PortfolioItemInput) (*entities.PortfolioItem, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}

	item, err := uc.portfolio.GetItem(ctx, businessID, itemID)
	if err != nil {
		return nil, err
	}
	item.Title = title
	item.Description = strings.TrimSpace(in.Description)
	item.Position = in.Position
	if err := uc.portfolio.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item together with its photos.
func (uc *PortfolioUsecase) Delete(ctx context.Context, actor Actor, businessID, itemID int) error {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return err
	}
	return uc.portfolio.DeleteItem(ctx, businessID, itemID)
}

func (uc *PortfolioUsecase) AddPhoto(ctx context.Context, actor Actor, businessID, itemID int, in PhotoInput) (*entities.BusinessPhoto, error) {
	if !isHTTPURL(in.URL) {
		return nil, fmt.Errorf("%w: photo url must be http(s)", ErrInvalidInput)
	}
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	if _, err := uc.portfolio.GetItem(ctx, businessID, itemID); err != nil {
		return nil, fmt.Errorf("portfolio item %d: %w", itemID, err)
	}

	photo := &entities.BusinessPhoto{
		BusinessID:      businessID,
		PortfolioItemID: &itemID,
		URL:             strings.TrimSpace(in.URL),
		Caption:         strings.TrimSpace(in.Caption),
		Position:        in.Position,
	}
	if err := uc.portfolio.AddPhoto(ctx, photo); err != nil {
		return nil, err
	}
	return photo, nil
}

func (uc *PortfolioUsecase) DeletePhoto(ctx context.Context, actor Actor, businessID, photoID int) error {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return err
	}
	return uc.portfolio.DeletePhoto(ctx, businessID, photoID)
}
