package scheduler

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwlicense/database"
	"hwlicense/models"
	"hwlicense/services"
	"hwlicense/utils"
)

func TestStartSweepsImmediately(t *testing.T) {
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()

	store := services.NewLicenseStore(db)
	ctx := context.Background()

	now := utils.NowUTC()
	stale := models.License{
		ID:             utils.GenerateID("lic"),
		LicenseKey:     "STALE",
		MaxActivations: 1,
		ValidUntil:     utils.FormatTime(now.Add(-time.Hour)),
		Status:         models.LicenseStatusActive,
		CreatedAt:      utils.FormatTime(now),
		UpdatedAt:      utils.FormatTime(now),
	}
	require.NoError(t, store.InsertLicense(ctx, store.DB(), &stale))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	Start(runCtx, services.NewLicenseService(store))

	lic, err := store.GetLicense(ctx, store.DB(), "STALE")
	require.NoError(t, err)
	assert.Equal(t, models.LicenseStatusExpired, lic.Status)
}
