package entities

// DeviceStatus describes the platform WhatsApp device used for owner notifications.
type DeviceStatus struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	LoggedIn  bool   `json:"logged_in"`
	Phone     string `json:"phone,omitempty"`
	Name      string `json:"name,omitempty"`
	QRPending bool   `json:"qr_pending"`
}
