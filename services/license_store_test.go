package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwlicense/models"
	"hwlicense/utils"
)

func insertTestLicense(t *testing.T, store *LicenseStore, key string, max int) models.License {
	t.Helper()

	now := utils.FormatTime(utils.NowUTC())
	lic := models.License{
		ID:             utils.GenerateID("lic"),
		LicenseKey:     key,
		HardwareID:     "HW-001",
		MaxActivations: max,
		Status:         models.LicenseStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, store.InsertLicense(context.Background(), store.DB(), &lic))
	return lic
}

func TestStoreInsertAndGet(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	want := insertTestLicense(t, store, "KEY-1", 2)

	got, err := store.GetLicense(ctx, store.DB(), "KEY-1")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.HardwareID, got.HardwareID)
	assert.Equal(t, 2, got.MaxActivations)
	assert.Zero(t, got.ActivationsUsed)

	_, err = store.GetLicense(ctx, store.DB(), "missing")
	assert.ErrorIs(t, err, ErrLicenseNotFound)
}

func TestStoreDuplicateKey(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))

	insertTestLicense(t, store, "KEY-1", 1)

	dup := models.License{
		ID:         utils.GenerateID("lic"),
		LicenseKey: "KEY-1",
		Status:     models.LicenseStatusActive,
	}
	err := store.InsertLicense(context.Background(), store.DB(), &dup)
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestStoreConsumeActivationGuard(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	insertTestLicense(t, store, "KEY-1", 2)
	now := utils.FormatTime(utils.NowUTC())

	for i := 0; i < 2; i++ {
		consumed, err := store.ConsumeActivation(ctx, store.DB(), "KEY-1", now)
		require.NoError(t, err)
		assert.True(t, consumed)
	}

	// The quota is spent; the guarded update matches nothing.
	consumed, err := store.ConsumeActivation(ctx, store.DB(), "KEY-1", now)
	require.NoError(t, err)
	assert.False(t, consumed)

	lic, err := store.GetLicense(ctx, store.DB(), "KEY-1")
	require.NoError(t, err)
	assert.Equal(t, 2, lic.ActivationsUsed)
}

func TestStoreConsumeActivationUnlimited(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	insertTestLicense(t, store, "KEY-1", 0)
	now := utils.FormatTime(utils.NowUTC())

	// Zero max_activations never exhausts.
	for i := 0; i < 5; i++ {
		consumed, err := store.ConsumeActivation(ctx, store.DB(), "KEY-1", now)
		require.NoError(t, err)
		assert.True(t, consumed)
	}

	lic, err := store.GetLicense(ctx, store.DB(), "KEY-1")
	require.NoError(t, err)
	assert.Equal(t, 5, lic.ActivationsUsed)
}

func TestStoreUpdateStatusRowCount(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	insertTestLicense(t, store, "KEY-1", 1)
	now := utils.FormatTime(utils.NowUTC())

	rows, err := store.UpdateLicenseStatus(ctx, store.DB(), "KEY-1", models.LicenseStatusRevoked, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = store.UpdateLicenseStatus(ctx, store.DB(), "missing", models.LicenseStatusRevoked, now)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestStoreWithTxRollsBack(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	boom := assert.AnError
	err := store.WithTx(ctx, func(q SQLExecutor) error {
		now := utils.FormatTime(utils.NowUTC())
		lic := models.License{
			ID:         utils.GenerateID("lic"),
			LicenseKey: "KEY-TX",
			Status:     models.LicenseStatusActive,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := store.InsertLicense(ctx, q, &lic); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.GetLicense(ctx, store.DB(), "KEY-TX")
	assert.ErrorIs(t, err, ErrLicenseNotFound)
}

func TestStoreAdminAccounts(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	// database.Open seeds the default account.
	admin, err := store.GetAdminByUsername(ctx, store.DB(), "admin")
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(admin.Password, "admin123"))

	byID, err := store.GetAdminByID(ctx, store.DB(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, admin.Username, byID.Username)

	hash, err := utils.HashPassword("new-password")
	require.NoError(t, err)
	now := utils.FormatTime(utils.NowUTC())
	require.NoError(t, store.UpdateAdminPassword(ctx, store.DB(), admin.ID, hash, now))

	updated, err := store.GetAdminByID(ctx, store.DB(), admin.ID)
	require.NoError(t, err)
	assert.True(t, utils.CheckPassword(updated.Password, "new-password"))

	err = store.UpdateAdminPassword(ctx, store.DB(), "missing", hash, now)
	assert.ErrorIs(t, err, ErrAdminNotFound)

	_, err = store.GetAdminByUsername(ctx, store.DB(), "nobody")
	assert.ErrorIs(t, err, ErrAdminNotFound)
}

func TestStoreAdminActivityLog(t *testing.T) {
	store := NewLicenseStore(newTestDB(t))
	ctx := context.Background()

	entry := models.AdminActivityLog{
		Admin:     "admin",
		Action:    models.AdminActionGenerate,
		Details:   "Issued license KEY-1",
		CreatedAt: utils.FormatTime(utils.NowUTC()),
	}
	require.NoError(t, store.InsertAdminActivity(ctx, store.DB(), &entry))
}
