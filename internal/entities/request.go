package entities

import "time"

const (
	RequestSent      = "SENT"
	RequestAccepted  = "ACCEPTED"
	RequestRejected  = "REJECTED"
	RequestPicked    = "PICKED"
	RequestCompleted = "COMPLETED"
	RequestCancelled = "CANCELLED"
)

// RequestClosed reports whether a request can no longer change.
func RequestClosed(status string) bool {
	switch status {
	case RequestRejected, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

const (
	PickerActive  = "ACTIVE"
	PickerDone    = "DONE"
	PickerRevoked = "REVOKED"
)

const (
	InquiryNew        = "NEW"
	InquiryInProgress = "IN_PROGRESS"
	InquiryClosed     = "CLOSED"
)

// Request is a purchase request sent by a buyer business to a supplier.
type Request struct {
	ID           int           `json:"id"`
	BuyerID      int           `json:"buyer_id"`
	BuyerName    string        `json:"buyer_name"`
	SupplierID   int           `json:"supplier_id"`
	SupplierName string        `json:"supplier_name"`
	Status       string        `json:"status"`
	Comment      string        `json:"comment"`
	Items        []RequestItem `json:"items"`
	TotalCents   int64         `json:"total_cents"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type RequestItem struct {
	ID             int      `json:"id"`
	RequestID      int      `json:"request_id"`
	Name           string   `json:"name"`
	Quantity       float64  `json:"quantity"`
	Unit           string   `json:"unit"`
	UnitPriceCents int64    `json:"unit_price_cents"`
	PriceListRowID *int     `json:"price_list_row_id,omitempty"`
	PickedQuantity *float64 `json:"picked_quantity,omitempty"`
}

// EffectiveQuantity is the picked quantity once a picker reported it.
func (i RequestItem) EffectiveQuantity() float64 {
	if i.PickedQuantity != nil {
		return *i.PickedQuantity
	}
	return i.Quantity
}

type PickerAssignment struct {
	ID         int       `json:"id"`
	RequestID  int       `json:"request_id"`
	Token      string    `json:"token"`
	PickerName string    `json:"picker_name"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// IncomingRequest is a customer inquiry left on a showcase.
type IncomingRequest struct {
	ID             int       `json:"id"`
	BusinessID     int       `json:"business_id"`
	ConversationID *string   `json:"conversation_id,omitempty"`
	CustomerName   string    `json:"customer_name"`
	Contact        string    `json:"contact"`
	Message        string    `json:"message"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}
