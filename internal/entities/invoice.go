package entities

import "time"

type Invoice struct {
	ID         int           `json:"id"`
	RequestID  int           `json:"request_id"`
	SupplierID int           `json:"supplier_id"`
	BuyerID    int           `json:"buyer_id"`
	Number     string        `json:"number"`
	TotalCents int64         `json:"total_cents"`
	Lines      []InvoiceLine `json:"lines"`
	CreatedAt  time.Time     `json:"created_at"`
}

type InvoiceLine struct {
	Name           string  `json:"name"`
	Quantity       float64 `json:"quantity"`
	Unit           string  `json:"unit"`
	UnitPriceCents int64   `json:"unit_price_cents"`
	AmountCents    int64   `json:"amount_cents"`
}
