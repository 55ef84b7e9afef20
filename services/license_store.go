package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hwlicense/models"
)

var (
	// ErrLicenseNotFound is returned when no license matches the given key.
	ErrLicenseNotFound = errors.New("license not found")
	// ErrDuplicateKey is returned when an insert collides with an existing
	// license key.
	ErrDuplicateKey = errors.New("license key already exists")
	// ErrAdminNotFound is returned when no admin matches the lookup.
	ErrAdminNotFound = errors.New("admin not found")
)

// LicenseStore is the durable repository of license and activation records.
// Every method takes an SQLExecutor so callers can compose reads and writes
// into one transaction via WithTx.
type LicenseStore struct {
	db *sql.DB
}

// NewLicenseStore wraps the database handle.
func NewLicenseStore(db *sql.DB) *LicenseStore {
	return &LicenseStore{db: db}
}

// DB exposes the underlying handle for non-transactional reads.
func (s *LicenseStore) DB() SQLExecutor {
	return s.db
}

// WithTx runs fn inside a transaction. A transient conflict (busy/locked/
// deadlock) is retried once; any other failure rolls back and surfaces.
func (s *LicenseStore) WithTx(ctx context.Context, fn func(q SQLExecutor) error) error {
	err := s.runTx(ctx, fn)
	if err != nil && isTransientError(err) {
		err = s.runTx(ctx, fn)
	}
	return err
}

func (s *LicenseStore) runTx(ctx context.Context, fn func(q SQLExecutor) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// InsertLicense persists a new license row.
func (s *LicenseStore) InsertLicense(ctx context.Context, q SQLExecutor, lic *models.License) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO licenses (id, license_key, hardware_id, max_activations, activations_used,
			valid_until, status, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lic.ID, lic.LicenseKey, lic.HardwareID, lic.MaxActivations, lic.ActivationsUsed,
		lic.ValidUntil, lic.Status, lic.Notes, lic.CreatedAt, lic.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return err
	}
	return nil
}

const licenseColumns = `id, license_key, hardware_id, max_activations, activations_used,
	valid_until, status, notes, created_at, updated_at`

// GetLicense loads the license with the given key.
func (s *LicenseStore) GetLicense(ctx context.Context, q SQLExecutor, key string) (models.License, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses WHERE license_key = ?`, key)
	return scanLicense(row)
}

func scanLicense(row *sql.Row) (models.License, error) {
	var (
		lic   models.License
		notes sql.NullString
	)
	err := row.Scan(
		&lic.ID, &lic.LicenseKey, &lic.HardwareID, &lic.MaxActivations, &lic.ActivationsUsed,
		&lic.ValidUntil, &lic.Status, &notes, &lic.CreatedAt, &lic.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return models.License{}, ErrLicenseNotFound
	}
	if err != nil {
		return models.License{}, err
	}
	if notes.Valid {
		lic.Notes = notes.String
	}
	return lic, nil
}

// UpdateLicenseStatus flips the license status. The returned row count lets
// callers distinguish a no-op from a real update.
func (s *LicenseStore) UpdateLicenseStatus(ctx context.Context, q SQLExecutor, key, status, updatedAt string) (int64, error) {
	res, err := q.ExecContext(ctx,
		`UPDATE licenses SET status = ?, updated_at = ? WHERE license_key = ?`,
		status, updatedAt, key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ConsumeActivation increments the activation counter, guarded so the quota
// invariant holds even when two activations race for the final slot: the
// UPDATE matches zero rows once the budget is spent. A max_activations of 0
// means unlimited and always matches.
func (s *LicenseStore) ConsumeActivation(ctx context.Context, q SQLExecutor, key, updatedAt string) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE licenses SET activations_used = activations_used + 1, updated_at = ?
		WHERE license_key = ? AND (max_activations = 0 OR activations_used < max_activations)`,
		updatedAt, key)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// InsertActivation appends an activation audit row.
func (s *LicenseStore) InsertActivation(ctx context.Context, q SQLExecutor, act *models.Activation) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO activations (license_key, hardware_id, source_ip, created_at)
		VALUES (?, ?, ?, ?)`,
		act.LicenseKey, act.HardwareID, act.SourceIP, act.CreatedAt)
	return err
}

// ListLicenses returns the most recently issued licenses first.
func (s *LicenseStore) ListLicenses(ctx context.Context, q SQLExecutor, limit int) ([]models.License, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+licenseColumns+` FROM licenses ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	licenses := make([]models.License, 0)
	for rows.Next() {
		var (
			lic   models.License
			notes sql.NullString
		)
		if err := rows.Scan(
			&lic.ID, &lic.LicenseKey, &lic.HardwareID, &lic.MaxActivations, &lic.ActivationsUsed,
			&lic.ValidUntil, &lic.Status, &notes, &lic.CreatedAt, &lic.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if notes.Valid {
			lic.Notes = notes.String
		}
		licenses = append(licenses, lic)
	}
	return licenses, rows.Err()
}

// ListActivations returns the most recent activation events first.
func (s *LicenseStore) ListActivations(ctx context.Context, q SQLExecutor, limit int) ([]models.Activation, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, license_key, hardware_id, source_ip, created_at
		FROM activations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activations := make([]models.Activation, 0)
	for rows.Next() {
		var act models.Activation
		if err := rows.Scan(&act.ID, &act.LicenseKey, &act.HardwareID, &act.SourceIP, &act.CreatedAt); err != nil {
			return nil, err
		}
		activations = append(activations, act)
	}
	return activations, rows.Err()
}

// CountLicenses counts licenses, optionally filtered by status.
func (s *LicenseStore) CountLicenses(ctx context.Context, q SQLExecutor, status string) (int, error) {
	var (
		count int
		err   error
	)
	if status == "" {
		err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM licenses`).Scan(&count)
	} else {
		err = q.QueryRowContext(ctx, `SELECT COUNT(*) FROM licenses WHERE status = ?`, status).Scan(&count)
	}
	return count, err
}

// CountActivations counts all recorded activation events.
func (s *LicenseStore) CountActivations(ctx context.Context, q SQLExecutor) (int, error) {
	var count int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM activations`).Scan(&count)
	return count, err
}

// MarkExpired flips past-due active licenses to expired. RFC3339 UTC strings
// order lexicographically, so the comparison happens in SQL.
func (s *LicenseStore) MarkExpired(ctx context.Context, q SQLExecutor, now, updatedAt string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE licenses SET status = ?, updated_at = ?
		WHERE status = ? AND valid_until <> '' AND valid_until <= ?`,
		models.LicenseStatusExpired, updatedAt, models.LicenseStatusActive, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetAdminByUsername loads an admin account for login.
func (s *LicenseStore) GetAdminByUsername(ctx context.Context, q SQLExecutor, username string) (models.Admin, error) {
	return scanAdmin(q.QueryRowContext(ctx, `
		SELECT id, username, password, created_at, updated_at
		FROM admins WHERE username = ?`, username))
}

// GetAdminByID loads an admin account by id.
func (s *LicenseStore) GetAdminByID(ctx context.Context, q SQLExecutor, id string) (models.Admin, error) {
	return scanAdmin(q.QueryRowContext(ctx, `
		SELECT id, username, password, created_at, updated_at
		FROM admins WHERE id = ?`, id))
}

func scanAdmin(row *sql.Row) (models.Admin, error) {
	var admin models.Admin
	err := row.Scan(&admin.ID, &admin.Username, &admin.Password, &admin.CreatedAt, &admin.UpdatedAt)
	if err == sql.ErrNoRows {
		return models.Admin{}, ErrAdminNotFound
	}
	if err != nil {
		return models.Admin{}, err
	}
	return admin, nil
}

// UpdateAdminPassword stores a new password hash.
func (s *LicenseStore) UpdateAdminPassword(ctx context.Context, q SQLExecutor, id, hash, updatedAt string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE admins SET password = ?, updated_at = ? WHERE id = ?`, hash, updatedAt, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrAdminNotFound
	}
	return nil
}

// InsertAdminActivity appends an admin audit row.
func (s *LicenseStore) InsertAdminActivity(ctx context.Context, q SQLExecutor, entry *models.AdminActivityLog) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO admin_activity_logs (admin, action, details, created_at)
		VALUES (?, ?, ?, ?)`,
		entry.Admin, entry.Action, entry.Details, entry.CreatedAt)
	return err
}

// isDuplicateKeyError recognises unique-constraint violations from either
// driver.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "Duplicate entry") // mysql 1062
}

// isTransientError recognises lock contention worth a single retry.
func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "busy") ||
		strings.Contains(msg, "locked") ||
		strings.Contains(msg, "deadlock")
}
