package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"hwlicense/logger"
	"hwlicense/models"
	"hwlicense/services"
	"hwlicense/utils"
)

// AdminHandler serves the token-guarded management endpoints.
type AdminHandler struct {
	service *services.LicenseService
	store   *services.LicenseStore
}

// NewAdminHandler wires the management endpoints.
func NewAdminHandler(service *services.LicenseService, store *services.LicenseStore) *AdminHandler {
	return &AdminHandler{service: service, store: store}
}

// Generate issues a new license.
// @Summary Issue a license
// @Description Creates a license bound to a hardware id, with an optional activation quota and expiry.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.GenerateRequest true "Issuance parameters"
// @Success 201 {object} models.APIResponse{data=models.License} "License created"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 409 {object} models.APIResponse "License key already exists"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /generate [post]
func (h *AdminHandler) Generate(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid generate request")

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	lic, err := h.service.Issue(r.Context(), req)
	if errors.Is(err, services.ErrInvalidInput) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("hwid or max_activations is required", nil))
		return
	}
	if errors.Is(err, services.ErrDuplicateKey) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(models.ErrorResponse("License key already exists", nil))
		return
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to issue license")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to issue license", err))
		return
	}

	h.logActivity(r, models.AdminActionGenerate,
		fmt.Sprintf("Issued license %s (hwid=%s, max=%d)", lic.LicenseKey, lic.HardwareID, lic.MaxActivations))

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(models.SuccessResponse("License created", lic))
}

// Revoke invalidates a license key. Revoking an already revoked or unknown
// key still succeeds.
// @Summary Revoke a license
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RevokeRequest true "License key"
// @Success 200 {object} models.APIResponse "License revoked"
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /admin/revoke [post]
func (h *AdminHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	var req models.RevokeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	err := h.service.Revoke(r.Context(), req.LicenseKey)
	if errors.Is(err, services.ErrInvalidInput) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("license_key is required", nil))
		return
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("Failed to revoke license")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to revoke license", err))
		return
	}

	h.logActivity(r, models.AdminActionRevoke, fmt.Sprintf("Revoked license %s", req.LicenseKey))

	json.NewEncoder(w).Encode(models.SuccessResponse("License revoked", nil))
}

// ListLicenses returns the most recent licenses.
// @Summary List licenses
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows (default 200)"
// @Success 200 {object} models.APIResponse{data=[]models.License} "Licenses"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /admin/licenses [get]
func (h *AdminHandler) ListLicenses(w http.ResponseWriter, r *http.Request) {
	licenses, err := h.service.ListLicenses(r.Context(), queryLimit(r))
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": r.Context().Value("request_id"),
			"error":      err.Error(),
		}).Error("Failed to list licenses")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to list licenses", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Licenses retrieved", licenses))
}

// ListActivations returns the most recent activation events.
// @Summary List activation events
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum rows (default 200)"
// @Success 200 {object} models.APIResponse{data=[]models.Activation} "Activations"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /admin/activations [get]
func (h *AdminHandler) ListActivations(w http.ResponseWriter, r *http.Request) {
	activations, err := h.service.ListActivations(r.Context(), queryLimit(r))
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": r.Context().Value("request_id"),
			"error":      err.Error(),
		}).Error("Failed to list activations")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to list activations", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Activations retrieved", activations))
}

// Stats returns license and activation counters for the dashboard.
// @Summary License statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.APIResponse "Counters"
// @Failure 401 {object} models.APIResponse "Unauthorized"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": r.Context().Value("request_id"),
			"error":      err.Error(),
		}).Error("Failed to load stats")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to load statistics", err))
		return
	}

	json.NewEncoder(w).Encode(models.SuccessResponse("Statistics retrieved", stats))
}

// logActivity records a privileged action in the audit feed. Failures are
// logged but never fail the request.
func (h *AdminHandler) logActivity(r *http.Request, action, details string) {
	admin := "token"
	if v, ok := r.Context().Value("username").(string); ok && v != "" {
		admin = v
	}

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

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return limit
}
