package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"hwlicense/logger"
	"hwlicense/middleware"
	"hwlicense/models"
	"hwlicense/services"
	"hwlicense/signer"
)

// LicenseHandler serves the public license check endpoint.
type LicenseHandler struct {
	service *services.LicenseService
	signer  *signer.Signer
}

// NewLicenseHandler wires the public endpoint. sig may be nil when receipt
// signing is disabled.
func NewLicenseHandler(service *services.LicenseService, sig *signer.Signer) *LicenseHandler {
	return &LicenseHandler{service: service, signer: sig}
}

// Check validates a license for a hardware id and consumes one activation on
// success. GET passes license/hwid as query parameters, POST as a JSON body.
// @Summary Check and activate a license
// @Description Validates the license key for the given hardware id. A passing check records an activation and consumes one quota slot.
// @Tags license
// @Accept json
// @Produce json
// @Param request body models.CheckRequest true "License and hardware id"
// @Success 200 {object} models.CheckResponse "License valid"
// @Failure 400 {object} models.APIResponse "Missing license or hwid"
// @Failure 403 {object} models.CheckResponse "License rejected"
// @Failure 404 {object} models.CheckResponse "License not found"
// @Failure 500 {object} models.APIResponse "Server error"
// @Router /check [post]
func (h *LicenseHandler) Check(w http.ResponseWriter, r *http.Request) {
	requestID := r.Context().Value("request_id")

	req, err := decodeCheckRequest(r)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Invalid check request")

		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("Invalid request body", err))
		return
	}

	result, err := h.service.CheckOrActivate(r.Context(), req.LicenseKey, req.HardwareID, middleware.GetClientIP(r))
	if errors.Is(err, services.ErrInvalidInput) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(models.ErrorResponse("license and hwid are required", nil))
		return
	}
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id":  requestID,
			"license_key": req.LicenseKey,
			"error":       err.Error(),
		}).Error("License check failed")

		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse("Failed to check license", err))
		return
	}

	if !result.Valid {
		status := http.StatusForbidden
		if result.Reason == models.ReasonNotFound {
			status = http.StatusNotFound
		}
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(models.CheckResponse{Valid: false, Reason: result.Reason})
		return
	}

	resp := models.CheckResponse{
		Valid:         true,
		ValidUntil:    result.License.ValidUntil,
		Activations:   result.License.ActivationsUsed,
		MaxActivation: result.License.MaxActivations,
	}

	if h.signer != nil {
		payload, signature, signErr := h.signer.Sign(signer.Payload{
			LicenseKey: result.License.LicenseKey,
			HardwareID: req.HardwareID,
			IssuedAt:   result.License.UpdatedAt,
		})
		if signErr != nil {
			// The activation row is already committed. Handing out an
			// unsigned receipt would be worse than losing the consumed
			// slot; the client recovers by checking again.
			logger.WithFields(map[string]interface{}{
				"request_id": requestID,
				"error":      signErr.Error(),
			}).Error("Failed to sign activation receipt")

			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(models.ErrorResponse("Signing key unavailable", nil))
			return
		}
		resp.SignedPayload = payload
		resp.Signature = signature
	}

	json.NewEncoder(w).Encode(resp)
}

func decodeCheckRequest(r *http.Request) (models.CheckRequest, error) {
	if r.Method == http.MethodGet {
		q := r.URL.Query()
		return models.CheckRequest{
			LicenseKey: q.Get("license"),
			HardwareID: q.Get("hwid"),
		}, nil
	}

	var req models.CheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return models.CheckRequest{}, err
	}
	return req, nil
}
