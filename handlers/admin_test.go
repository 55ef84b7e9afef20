package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwlicense/models"
)

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGenerateLicense(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)

	w := postJSON(t, handler.Generate, "/generate", models.GenerateRequest{
		HardwareID:     "HW-001",
		Days:           14,
		MaxActivations: 3,
		Notes:          "qa machine",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "success", resp.Status)

	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var lic models.License
	require.NoError(t, json.Unmarshal(data, &lic))
	assert.NotEmpty(t, lic.LicenseKey)
	assert.Equal(t, 3, lic.MaxActivations)
	assert.Equal(t, "qa machine", lic.Notes)
}

func TestGenerateLicenseErrors(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)

	// Neither hwid nor quota.
	w := postJSON(t, handler.Generate, "/generate", models.GenerateRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Explicit key conflict.
	env.issue(t, models.GenerateRequest{HardwareID: "HW-001", LicenseKey: "TAKEN"})
	w = postJSON(t, handler.Generate, "/generate", models.GenerateRequest{
		HardwareID: "HW-002",
		LicenseKey: "TAKEN",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", decodeEnvelope(t, w).Status)
}

func TestRevokeLicense(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)
	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})

	w := postJSON(t, handler.Revoke, "/admin/revoke", models.RevokeRequest{LicenseKey: lic.LicenseKey})
	assert.Equal(t, http.StatusOK, w.Code)

	// Revoking again still succeeds.
	w = postJSON(t, handler.Revoke, "/admin/revoke", models.RevokeRequest{LicenseKey: lic.LicenseKey})
	assert.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, handler.Revoke, "/admin/revoke", models.RevokeRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	result, err := env.service.CheckOrActivate(context.Background(), lic.LicenseKey, "HW-001", "")
	require.NoError(t, err)
	assert.Equal(t, models.ReasonRevoked, result.Reason)
}

func TestListLicensesAndActivations(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)

	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10, MaxActivations: 2})
	env.issue(t, models.GenerateRequest{HardwareID: "HW-002", Days: 10})

	_, err := env.service.CheckOrActivate(context.Background(), lic.LicenseKey, "HW-001", "10.0.0.1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.ListLicenses(w, httptest.NewRequest(http.MethodGet, "/admin/licenses", nil))
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var licenses []models.License
	require.NoError(t, json.Unmarshal(data, &licenses))
	assert.Len(t, licenses, 2)

	w = httptest.NewRecorder()
	handler.ListLicenses(w, httptest.NewRequest(http.MethodGet, "/admin/licenses?limit=1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data, err = json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &licenses))
	assert.Len(t, licenses, 1)

	w = httptest.NewRecorder()
	handler.ListActivations(w, httptest.NewRequest(http.MethodGet, "/admin/activations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data, err = json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	var activations []models.Activation
	require.NoError(t, json.Unmarshal(data, &activations))
	require.Len(t, activations, 1)
	assert.Equal(t, "10.0.0.1", activations[0].SourceIP)
}

func TestStatsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)

	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})
	require.NoError(t, env.service.Revoke(context.Background(), lic.LicenseKey))
	env.issue(t, models.GenerateRequest{HardwareID: "HW-002", Days: 10})

	w := httptest.NewRecorder()
	handler.Stats(w, httptest.NewRequest(http.MethodGet, "/admin/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	data, err := json.Marshal(decodeEnvelope(t, w).Data)
	require.NoError(t, err)
	var stats map[string]int
	require.NoError(t, json.Unmarshal(data, &stats))
	assert.Equal(t, 2, stats["total_licenses"])
	assert.Equal(t, 1, stats["revoked_licenses"])
}

func TestGenerateRecordsAdminActivity(t *testing.T) {
	env := newTestEnv(t)
	handler := NewAdminHandler(env.service, env.store)

	w := postJSON(t, handler.Generate, "/generate", models.GenerateRequest{HardwareID: "HW-001"})
	require.Equal(t, http.StatusCreated, w.Code)

	var count int
	err := env.db.QueryRow(`SELECT COUNT(*) FROM admin_activity_logs WHERE action = ?`,
		models.AdminActionGenerate).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
