package models

// Activation is one successful check or activation event. Rows are
// append-only: they are never updated or deleted and double as the audit
// trail of every successful verification.
type Activation struct {
	ID         int64  `json:"id" db:"id"`
	LicenseKey string `json:"license_key" db:"license_key"`
	HardwareID string `json:"hwid" db:"hardware_id"`
	SourceIP   string `json:"ip" db:"source_ip"`
	CreatedAt  string `json:"created_at" db:"created_at"`
}
