package handlers

import (
	"bytes"
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwlicense/database"
	"hwlicense/models"
	"hwlicense/services"
	"hwlicense/signer"
)

type testEnv struct {
	db      *sql.DB
	store   *services.LicenseStore
	service *services.LicenseService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := services.NewLicenseStore(db)
	return &testEnv{
		db:      db,
		store:   store,
		service: services.NewLicenseService(store),
	}
}

func (e *testEnv) issue(t *testing.T, req models.GenerateRequest) models.License {
	t.Helper()
	lic, err := e.service.Issue(context.Background(), req)
	require.NoError(t, err)
	return lic
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	handler(w, r)
	return w
}

func decodeCheck(t *testing.T, w *httptest.ResponseRecorder) models.CheckResponse {
	t.Helper()
	var resp models.CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCheckPostValid(t *testing.T) {
	env := newTestEnv(t)
	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})
	handler := NewLicenseHandler(env.service, nil)

	w := postJSON(t, handler.Check, "/check", models.CheckRequest{
		LicenseKey: lic.LicenseKey,
		HardwareID: "HW-001",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeCheck(t, w)
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Reason)
	assert.Equal(t, 1, resp.Activations)
	assert.Zero(t, resp.MaxActivation)
	assert.Empty(t, resp.Signature)

	// The same client verifies again without hitting a budget.
	w = postJSON(t, handler.Check, "/check", models.CheckRequest{
		LicenseKey: lic.LicenseKey,
		HardwareID: "HW-001",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeCheck(t, w).Valid)
}

func TestCheckGetQueryParams(t *testing.T) {
	env := newTestEnv(t)
	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})
	handler := NewLicenseHandler(env.service, nil)

	q := url.Values{"license": {lic.LicenseKey}, "hwid": {"HW-001"}}
	r := httptest.NewRequest(http.MethodGet, "/check?"+q.Encode(), nil)
	w := httptest.NewRecorder()
	handler.Check(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeCheck(t, w).Valid)
}

func TestCheckStatusMapping(t *testing.T) {
	env := newTestEnv(t)
	handler := NewLicenseHandler(env.service, nil)

	bound := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})
	revoked := env.issue(t, models.GenerateRequest{HardwareID: "HW-002", Days: 10})
	require.NoError(t, env.service.Revoke(context.Background(), revoked.LicenseKey))

	cases := []struct {
		name       string
		req        models.CheckRequest
		wantStatus int
		wantReason string
	}{
		{"unknown key", models.CheckRequest{LicenseKey: "missing", HardwareID: "HW-001"}, http.StatusNotFound, models.ReasonNotFound},
		{"wrong hardware", models.CheckRequest{LicenseKey: bound.LicenseKey, HardwareID: "HW-OTHER"}, http.StatusForbidden, models.ReasonHWIDMismatch},
		{"revoked", models.CheckRequest{LicenseKey: revoked.LicenseKey, HardwareID: "HW-002"}, http.StatusForbidden, models.ReasonRevoked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, handler.Check, "/check", tc.req)
			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeCheck(t, w)
			assert.False(t, resp.Valid)
			assert.Equal(t, tc.wantReason, resp.Reason)
		})
	}
}

func TestCheckMissingFields(t *testing.T) {
	env := newTestEnv(t)
	handler := NewLicenseHandler(env.service, nil)

	w := postJSON(t, handler.Check, "/check", models.CheckRequest{HardwareID: "HW-001"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r := httptest.NewRequest(http.MethodPost, "/check", bytes.NewReader([]byte("{broken")))
	rec := httptest.NewRecorder()
	handler.Check(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckSignedReceipt(t *testing.T) {
	env := newTestEnv(t)
	lic := env.issue(t, models.GenerateRequest{HardwareID: "HW-001", Days: 10})

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	handler := NewLicenseHandler(env.service, signer.FromKey(key))

	w := postJSON(t, handler.Check, "/check", models.CheckRequest{
		LicenseKey: lic.LicenseKey,
		HardwareID: "HW-001",
	})
	require.Equal(t, http.StatusOK, w.Code)

	resp := decodeCheck(t, w)
	require.NotEmpty(t, resp.SignedPayload)
	require.NotEmpty(t, resp.Signature)

	var payload signer.Payload
	require.NoError(t, json.Unmarshal([]byte(resp.SignedPayload), &payload))
	assert.Equal(t, lic.LicenseKey, payload.LicenseKey)
	assert.Equal(t, "HW-001", payload.HardwareID)

	sig, err := base64.StdEncoding.DecodeString(resp.Signature)
	require.NoError(t, err)
	digest := sha256.Sum256([]byte(resp.SignedPayload))
	assert.NoError(t, rsa.VerifyPKCS1v15(&key.PublicKey, crypto.SHA256, digest[:], sig))
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
}
