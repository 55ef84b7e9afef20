package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hwlicense/config"
	"hwlicense/logger"
	"hwlicense/models"
	"hwlicense/services"
	"hwlicense/utils"
)

// AuthHandler serves dashboard login and account management.
type AuthHandler struct {
	store *services.LicenseStore
	cfg   *config.Config
}

// NewAuthHandler wires the auth endpoints.
func NewAuthHandler(store *services.LicenseStore, cfg *config.Config) *AuthHandler {
	return &AuthHandler{store: store, cfg: cfg}
}

// Login authenticates an admin and issues a session token.
// @Summary Admin login
// @Description Authenticates an admin account and returns a JWT session token.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "Credentials"
// @Success 200 {object} models.APIResponse{data=models.LoginResponse} "Login successful"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 401 {object} models.APIResponse "Invalid credentials"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid login request body")

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"username":   req.Username,
	}).Info("Login attempt")

	admin, err := h.store.GetAdminByUsername(r.Context(), h.store.DB(), req.Username)
	if errors.Is(err, services.ErrAdminNotFound) || (err == nil && !utils.CheckPassword(admin.Password, req.Password)) {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"username":   req.Username,
		}).Warn("Login failed")

		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid credentials", nil))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load admin", err))
		return
	}

	token, expiresAt, err := utils.GenerateToken([]byte(h.cfg.JWTSecret), admin.ID, admin.Username)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"admin_id":   admin.ID,
			"error":      err.Error(),
		}).Error("Failed to generate session token")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to generate token", err))
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"admin_id":   admin.ID,
		"username":   admin.Username,
	}).Info("Login successful")

	h.logActivity(r, admin.Username, models.AdminActionLogin, "Login successful")

	json.NewEncoder(w).Encode(models.SuccessResponse("Login successful", models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Admin:     &admin,
	}))
}

// Me returns the logged-in admin's account.
// @Summary Current admin
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse{data=models.Admin} "Account"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 404 {object} models.APIResponse "Account not found"
// @Router /api/admin/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	adminID, _ := r.Context().Value("admin_id").(string)

	admin, err := h.store.GetAdminByID(r.Context(), h.store.DB(), adminID)
	if errors.Is(err, services.ErrAdminNotFound) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(models.ErrorResponse("Admin not found", nil))
		return
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load admin", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Admin retrieved", admin))
}

// ChangePassword rotates the logged-in admin's password.
// @Summary Change admin password
// @Tags auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.ChangePasswordRequest true "Old and new password"
// @Success 200 {object} models.APIResponse "Password changed"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 401 {object} models.APIResponse "Wrong old password"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /api/admin/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")
	adminID, _ := r.Context().Value("admin_id").(string)

	var req models.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}
	if len(req.NewPassword) < 8 {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("New password must be at least 8 characters", nil))
		return
	}

	admin, err := h.store.GetAdminByID(r.Context(), h.store.DB(), adminID)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load admin", err))
		return
	}

	if !utils.CheckPassword(admin.Password, req.OldPassword) {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"admin_id":   adminID,
		}).Warn("Password change rejected")

		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorResponse("Old password is incorrect", nil))
		return
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to hash password", err))
		return
	}

	now := utils.FormatTime(utils.NowUTC())
	if err := h.store.UpdateAdminPassword(r.Context(), h.store.DB(), adminID, hashed, now); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to update password", err))
		return
	}

	h.logActivity(r, admin.Username, models.AdminActionChangePassword, "Password changed")

	json.NewEncoder(w).Encode(models.SuccessResponse("Password changed", nil))
}

func (h *AuthHandler) logActivity(r *http.Request, admin, action, details string) {
	entry := models.AdminActivityLog{
		Admin:     admin,
		Action:    action,
		Details:   details,
		CreatedAt: utils.FormatTime(utils.NowUTC()),
	}
	if err := h.store.InsertAdminActivity(r.Context(), h.store.DB(), &entry); err != nil {
		logger.WithFields(map[string]interface{}{
			"action": action,
			"error":  err.Error(),
		}).Warn("Failed to record admin activity")
	}
}
