package entities

// PlatformStats are the aggregate counters shown to admins.
type PlatformStats struct {
	Users              int            `json:"users"`
	Businesses         int            `json:"businesses"`
	ActiveBusinesses   int            `json:"active_businesses"`
	PriceLists         int            `json:"price_lists"`
	PriceRows          int            `json:"price_rows"`
	AssignmentsByState map[string]int `json:"assignments_by_status"`
	RequestsByState    map[string]int `json:"requests_by_status"`
	Conversations      int            `json:"conversations"`
	Messages           int            `json:"messages"`
	Inquiries          int            `json:"inquiries"`
	Invoices           int            `json:"invoices"`
	InvoicedCents      int64          `json:"invoiced_cents"`
}
