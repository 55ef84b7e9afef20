package models

// Admin is a dashboard account.
type Admin struct {
	ID        string `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	Password  string `json:"-" db:"password"` // bcrypt hash
	CreatedAt string `json:"created_at" db:"created_at"`
	UpdatedAt string `json:"updated_at" db:"updated_at"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	Admin     *Admin `json:"admin"`
}

// ChangePasswordRequest rotates an admin password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// AdminActivityLog records a privileged action for the audit feed.
type AdminActivityLog struct {
	ID        int64  `json:"id" db:"id"`
	Admin     string `json:"admin" db:"admin"`
	Action    string `json:"action" db:"action"`
	Details   string `json:"details" db:"details"`
	CreatedAt string `json:"created_at" db:"created_at"`
}

// Admin activity action constants.
const (
	AdminActionLogin          = "login"
	AdminActionChangePassword = "change_password"
	AdminActionGenerate       = "generate_license"
	AdminActionRevoke         = "revoke_license"
)
