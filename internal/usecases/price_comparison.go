package usecases

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"project_resident/internal/entities"
	"project_resident/internal/interfaces"
)

// NormalizeName lower-cases a product name, turns punctuation into spaces and
// collapses whitespace, so "Сахар, 1кг" and "сахар 1кг" compare equal.
func NormalizeName(name string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			space = false
			sb.WriteRune(r)
			continue
		}
		space = true
	}
	return sb.String()
}

type SupplierRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Offer struct {
	SupplierID   int    `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	PriceListID  int    `json:"price_list_id"`
	RowID        int    `json:"row_id"`
	Name         string `json:"name"`
	Unit         string `json:"unit"`
	PriceCents   int64  `json:"price_cents"`
	Currency     string `json:"currency"`
	Best         bool   `json:"best"`
}

func offerFrom(sr entities.SupplierRow) Offer {
	return Offer{
		SupplierID:   sr.SupplierID,
		SupplierName: sr.SupplierName,
		PriceListID:  sr.PriceListID,
		RowID:        sr.Row.ID,
		Name:         sr.Row.Name,
		Unit:         sr.Row.Unit,
		PriceCents:   sr.Row.PriceCents,
		Currency:     sr.Currency,
	}
}

type ComparedProduct struct {
	Key            string  `json:"key"`
	Name           string  `json:"name"`
	BestSupplierID int     `json:"best_supplier_id"`
	Offers         []Offer `json:"offers"`
}

type Comparison struct {
	Suppliers []SupplierRef     `json:"suppliers"`
	Products  []ComparedProduct `json:"products"`
}

// sortOffers orders by price, then supplier name, and marks the first as best.
func sortOffers(offers []Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		if offers[i].PriceCents != offers[j].PriceCents {
			return offers[i].PriceCents < offers[j].PriceCents
		}
		return offers[i].SupplierName < offers[j].SupplierName
	})
	for i := range offers {
		offers[i].Best = i == 0
	}
}

// cheapestPerSupplier keeps one offer per supplier: the lowest priced row.
func cheapestPerSupplier(rows []entities.SupplierRow) []Offer {
	bySupplier := map[int]int{}
	var offers []Offer
	for _, sr := range rows {
		if i, ok := bySupplier[sr.SupplierID]; ok {
			if sr.Row.PriceCents < offers[i].PriceCents {
				offers[i] = offerFrom(sr)
			}
			continue
		}
		bySupplier[sr.SupplierID] = len(offers)
		offers = append(offers, offerFrom(sr))
	}
	sortOffers(offers)
	return offers
}

func suppliersOf(rows []entities.SupplierRow) []SupplierRef {
	seen := map[int]bool{}
	out := []SupplierRef{}
	for _, sr := range rows {
		if seen[sr.SupplierID] {
			continue
		}
		seen[sr.SupplierID] = true
		out = append(out, SupplierRef{ID: sr.SupplierID, Name: sr.SupplierName})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Compare groups rows by normalised name and ranks supplier offers per product.
func Compare(rows []entities.SupplierRow) *Comparison {
	groups := map[string][]entities.SupplierRow{}
	for _, sr := range rows {
		key := NormalizeName(sr.Row.Name)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], sr)
	}

	products := make([]ComparedProduct, 0, len(groups))
	for key, group := range groups {
		offers := cheapestPerSupplier(group)
		products = append(products, ComparedProduct{
			Key:            key,
			Name:           offers[0].Name,
			BestSupplierID: offers[0].SupplierID,
			Offers:         offers,
		})
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Key < products[j].Key })

	return &Comparison{Suppliers: suppliersOf(rows), Products: products}
}

// BasketItem is one line of a draft order.
type BasketItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

const basketUnits = `kg|g|l|ml|pcs|pc|m|box|pack|кг|г|л|мл|шт|м|уп|упак|кор`

var (
	leadingQtyRegex  = regexp.MustCompile(`(?i)^(\d+(?:[.,]\d+)?)\s*(` + basketUnits + `)?\.?\s+(.+)$`)
	trailingQtyRegex = regexp.MustCompile(`(?i)^(.+?)\s+(\d+(?:[.,]\d+)?)\s*(` + basketUnits + `)?\.?$`)
)

func parseQuantity(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

// ParseBasketLine reads free text such as "30 kg sugar", "sugar 30kg" or just
// "sugar" (quantity 1).
func ParseBasketLine(line string) (BasketItem, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return BasketItem{}, fmt.Errorf("%w: empty line", ErrInvalidInput)
	}

	if m := leadingQtyRegex.FindStringSubmatch(line); m != nil {
		qty, err := parseQuantity(m[1])
		if err != nil {
			return BasketItem{}, fmt.Errorf("%w: quantity %q", ErrInvalidInput, m[1])
		}
		return BasketItem{Name: strings.TrimSpace(m[3]), Quantity: qty, Unit: strings.ToLower(m[2])}, nil
	}
	if m := trailingQtyRegex.FindStringSubmatch(line); m != nil {
		qty, err := parseQuantity(m[2])
		if err != nil {
			return BasketItem{}, fmt.Errorf("%w: quantity %q", ErrInvalidInput, m[2])
		}
		return BasketItem{Name: strings.TrimSpace(m[1]), Quantity: qty, Unit: strings.ToLower(m[3])}, nil
	}
	return BasketItem{Name: line, Quantity: 1}, nil
}

// ParseBasketText splits text into lines and parses each non-empty one.
func ParseBasketText(text string) ([]BasketItem, error) {
	var items []BasketItem
	for n, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		item, err := ParseBasketLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

// matchingRows returns the rows offering the given product: exact normalised
// name matches, or rows whose name contains it when there is no exact match.
func matchingRows(rows []entities.SupplierRow, name string) []entities.SupplierRow {
	key := NormalizeName(name)
	if key == "" {
		return nil
	}
	var exact, partial []entities.SupplierRow
	for _, sr := range rows {
		rowKey := NormalizeName(sr.Row.Name)
		switch {
		case rowKey == key:
			exact = append(exact, sr)
		case strings.Contains(rowKey, key):
			partial = append(partial, sr)
		}
	}
	if len(exact) > 0 {
		return exact
	}
	return partial
}

func lineAmount(qty float64, priceCents int64) int64 {
	return int64(math.Round(qty * float64(priceCents)))
}

type BasketLine struct {
	Item      BasketItem `json:"item"`
	Best      *Offer     `json:"best,omitempty"`
	Offers    []Offer    `json:"offers"`
	LineCents int64      `json:"line_cents"`
}

type SupplierBasket struct {
	SupplierID   int     `json:"supplier_id"`
	SupplierName string  `json:"supplier_name"`
	Matched      int     `json:"matched"`
	Coverage     float64 `json:"coverage"`
	TotalCents   int64   `json:"total_cents"`
}

type BasketSummary struct {
	Lines     []BasketLine     `json:"lines"`
	Suppliers []SupplierBasket `json:"suppliers"`

	// BestTotalCents is the cost when every item is bought at its best offer.
	BestTotalCents int64 `json:"best_total_cents"`
	Unmatched      int   `json:"unmatched"`
}

// Summarize prices a draft basket against every supplier offer.
func Summarize(rows []entities.SupplierRow, items []BasketItem) *BasketSummary {
	summary := &BasketSummary{Lines: make([]BasketLine, 0, len(items))}
	baskets := map[int]*SupplierBasket{}
	for _, s := range suppliersOf(rows) {
		baskets[s.ID] = &SupplierBasket{SupplierID: s.ID, SupplierName: s.Name}
	}

	for _, item := range items {
		line := BasketLine{Item: item, Offers: cheapestPerSupplier(matchingRows(rows, item.Name))}
		if line.Offers == nil {
			line.Offers = []Offer{}
		}
		if len(line.Offers) == 0 {
			summary.Unmatched++
		} else {
			best := line.Offers[0]
			line.Best = &best
			line.LineCents = lineAmount(item.Quantity, best.PriceCents)
			summary.BestTotalCents += line.LineCents
		}
		for _, o := range line.Offers {
			b := baskets[o.SupplierID]
			b.Matched++
			b.TotalCents += lineAmount(item.Quantity, o.PriceCents)
		}
		summary.Lines = append(summary.Lines, line)
	}

	summary.Suppliers = make([]SupplierBasket, 0, len(baskets))
	for _, b := range baskets {
		if len(items) > 0 {
			b.Coverage = float64(b.Matched) / float64(len(items))
		}
		summary.Suppliers = append(summary.Suppliers, *b)
	}
	sort.Slice(summary.Suppliers, func(i, j int) bool {
		a, b := summary.Suppliers[i], summary.Suppliers[j]
		if a.Matched != b.Matched {
			return a.Matched > b.Matched
		}
		if a.TotalCents != b.TotalCents {
			return a.TotalCents < b.TotalCents
		}
		return a.SupplierID < b.SupplierID
	})
	return summary
}

// ComparisonUsecase serves the buyer-side views over ACTIVE partner price lists.
type ComparisonUsecase struct {
	access
	prices interfaces.PriceStore
}

func NewComparisonUsecase(businesses interfaces.BusinessStore, prices interfaces.PriceStore) *ComparisonUsecase {
	return &ComparisonUsecase{access: access{businesses: businesses}, prices: prices}
}

func (uc *ComparisonUsecase) Compare(ctx context.Context, actor Actor, businessID int) (*Comparison, error) {
	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	rows, err := uc.prices.ActiveSupplierRows(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("load supplier rows: %w", err)
	}
	return Compare(rows), nil
}

// Summary prices structured items plus any free-text lines.
func (uc *ComparisonUsecase) Summary(ctx context.Context, actor Actor, businessID int, items []BasketItem, text string) (*BasketSummary, error) {
	parsed, err := ParseBasketText(text)
	if err != nil {
		return nil, err
	}
	items = append(items, parsed...)
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		if items[i].Name == "" {
			return nil, fmt.Errorf("%w: item %d has no name", ErrInvalidInput, i+1)
		}
		if items[i].Quantity <= 0 {
			items[i].Quantity = 1
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: basket is empty", ErrInvalidInput)
	}

	if _, err := uc.ownedBusiness(ctx, actor, businessID); err != nil {
		return nil, err
	}
	rows, err := uc.prices.ActiveSupplierRows(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("load supplier rows: %w", err)
	}
	return Summarize(rows, items), nil
}
