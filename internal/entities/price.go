package entities

import "time"

const (
	AssignmentPending  = "PENDING"
	AssignmentActive   = "ACTIVE"
	AssignmentDeclined = "DECLINED"
	AssignmentRevoked  = "REVOKED"
)

type PriceList struct {
	ID         int            `json:"id"`
	BusinessID int            `json:"business_id"`
	Title      string         `json:"title"`
	Currency   string         `json:"currency"`
	IsPublic   bool           `json:"is_public"`
	Rows       []PriceListRow `json:"rows"`
	CreatedAt  time.Time      `json:"created_at"`
}

type PriceListRow struct {
	ID          int    `json:"id"`
	PriceListID int    `json:"price_list_id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	PriceCents  int64  `json:"price_cents"`
	SKU         string `json:"sku"`
	Position    int    `json:"position"`
}

// PriceAssignment shares a supplier's price list with a partner business.
type PriceAssignment struct {
	ID            int        `json:"id"`
	PriceListID   int        `json:"price_list_id"`
	PriceListName string     `json:"price_list_title"`
	SupplierID    int        `json:"supplier_id"`
	SupplierName  string     `json:"supplier_name"`
	BusinessID    int        `json:"business_id"`
	BusinessName  string     `json:"business_name"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	RespondedAt   *time.Time `json:"responded_at,omitempty"`
}

// SupplierRow is a price row reachable by a buyer through an ACTIVE assignment.
type SupplierRow struct {
	SupplierID   int
	SupplierName string
	PriceListID  int
	Currency     string
	Row          PriceListRow
}
