package models

import "time"

// License is a single grant of software use, optionally pinned to a hardware
// id, with an activation quota and an optional absolute expiry.
type License struct {
	ID              string `json:"id" db:"id"`
	LicenseKey      string `json:"license_key" db:"license_key"`
	HardwareID      string `json:"hardware_id,omitempty" db:"hardware_id"`
	MaxActivations  int    `json:"max_activations" db:"max_activations"` // 0 = unlimited
	ActivationsUsed int    `json:"activations_used" db:"activations_used"`
	ValidUntil      string `json:"valid_until,omitempty" db:"valid_until"` // RFC3339 UTC, empty = no expiry
	Status          string `json:"status" db:"status"`                    // active, revoked, expired
	Notes           string `json:"notes,omitempty" db:"notes"`
	CreatedAt       string `json:"created_at" db:"created_at"`
	UpdatedAt       string `json:"updated_at" db:"updated_at"`
}

// License status constants.
const (
	LicenseStatusActive  = "active"
	LicenseStatusRevoked = "revoked"
	LicenseStatusExpired = "expired"
)

// Check reason codes. The public check endpoint returns exactly one of these
// alongside valid=false.
const (
	ReasonNotFound      = "not_found"
	ReasonRevoked       = "revoked"
	ReasonHWIDMismatch  = "hwid_mismatch"
	ReasonQuotaExceeded = "quota_exceeded"
	ReasonExpired       = "expired"
)

// IsExpiredAt reports whether the license is past its expiry at the given
// instant. A license whose valid_until equals now is already expired.
func (l *License) IsExpiredAt(now time.Time) bool {
	if l.ValidUntil == "" {
		return false
	}
	until, err := time.Parse(time.RFC3339, l.ValidUntil)
	if err != nil {
		// An unparseable expiry never validates.
		return true
	}
	return !now.Before(until)
}

// GenerateRequest is the admin issuance payload.
type GenerateRequest struct {
	HardwareID     string `json:"hwid"`
	Days           int    `json:"days"`
	MaxActivations int    `json:"max_activations"`
	LicenseKey     string `json:"license_key"` // optional explicit key
	Notes          string `json:"notes"`
}

// CheckRequest is the public validation payload (POST body; GET uses the
// equivalent query parameters).
type CheckRequest struct {
	LicenseKey string `json:"license"`
	HardwareID string `json:"hwid"`
}

// CheckResponse is returned by the public check endpoint on every branch.
type CheckResponse struct {
	Valid         bool   `json:"valid"`
	Reason        string `json:"reason,omitempty"`
	ValidUntil    string `json:"valid_until,omitempty"`
	Activations   int    `json:"activations_used,omitempty"`
	MaxActivation int    `json:"max_activations,omitempty"`
	SignedPayload string `json:"signed_payload,omitempty"`
	Signature     string `json:"signature,omitempty"`
}

// RevokeRequest is the admin revocation payload.
type RevokeRequest struct {
	LicenseKey string `json:"license_key"`
}
