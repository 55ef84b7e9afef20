package handlers

import (
	"encoding/json"
	"net/http"

	"hwlicense/models"
)

// Health reports server liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} models.APIResponse "Server is up"
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	json.NewEncoder(w).Encode(models.SuccessResponse("ok", nil))
}
