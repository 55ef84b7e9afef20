package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"hwlicense/logger"
	"hwlicense/models"
	"hwlicense/utils"
)

// ErrInvalidInput is returned when a required identifying field is missing.
var ErrInvalidInput = errors.New("invalid input")

const defaultDurationDays = 30

// CheckResult is the outcome of a check/activation attempt. Reason is set
// exactly when Valid is false.
type CheckResult struct {
	Valid   bool
	Reason  string
	License models.License
}

// LicenseService implements the license lifecycle: issuance, the
// check/activate decision procedure, revocation, and the read-only lists.
// It holds no license state between requests; every operation re-reads the
// current row inside its own transaction.
type LicenseService struct {
	store *LicenseStore
	now   func() time.Time
}

// NewLicenseService builds the engine on top of the store.
func NewLicenseService(store *LicenseStore) *LicenseService {
	return &LicenseService{store: store, now: utils.NowUTC}
}

// Issue creates a new license. The hardware id may be empty for quota-only
// licenses, but then an explicit activation quota is required. Days defaults
// to 30 when a hardware id is supplied; a quota-only license with no days set
// never expires. A hardware-bound license with no explicit quota checks
// repeatedly without limit (max_activations 0 = unlimited).
func (s *LicenseService) Issue(ctx context.Context, req models.GenerateRequest) (models.License, error) {
	req.HardwareID = strings.TrimSpace(req.HardwareID)
	req.LicenseKey = strings.TrimSpace(req.LicenseKey)

	if req.Days < 0 || req.MaxActivations < 0 {
		return models.License{}, ErrInvalidInput
	}
	if req.HardwareID == "" && req.MaxActivations == 0 {
		return models.License{}, ErrInvalidInput
	}

	days := req.Days
	if days == 0 && req.HardwareID != "" {
		days = defaultDurationDays
	}

	now := s.now()
	validUntil := ""
	if days > 0 {
		validUntil = utils.FormatTime(now.AddDate(0, 0, days))
	}

	explicitKey := req.LicenseKey != ""
	key := req.LicenseKey
	if !explicitKey {
		generated, err := utils.GenerateLicenseKey(req.HardwareID)
		if err != nil {
			return models.License{}, err
		}
		key = generated
	}

	lic := models.License{
		ID:              utils.GenerateID("lic"),
		LicenseKey:      key,
		HardwareID:      req.HardwareID,
		MaxActivations:  req.MaxActivations,
		ActivationsUsed: 0,
		ValidUntil:      validUntil,
		Status:          models.LicenseStatusActive,
		Notes:           req.Notes,
		CreatedAt:       utils.FormatTime(now),
		UpdatedAt:       utils.FormatTime(now),
	}

	err := s.store.WithTx(ctx, func(q SQLExecutor) error {
		return s.store.InsertLicense(ctx, q, &lic)
	})
	if errors.Is(err, ErrDuplicateKey) && !explicitKey {
		// A digest collision is vanishingly rare; regenerate once before
		// giving up.
		regenerated, genErr := utils.GenerateLicenseKey(req.HardwareID)
		if genErr != nil {
			return models.License{}, genErr
		}
		lic.LicenseKey = regenerated
		err = s.store.WithTx(ctx, func(q SQLExecutor) error {
			return s.store.InsertLicense(ctx, q, &lic)
		})
	}
	if err != nil {
		return models.License{}, err
	}

	logger.WithFields(map[string]interface{}{
		"license_key": lic.LicenseKey,
		"hardware_id": lic.HardwareID,
		"valid_until": lic.ValidUntil,
		"max":         lic.MaxActivations,
	}).Info("License issued")

	return lic, nil
}

// CheckOrActivate evaluates a license against the supplied hardware id and,
// on success, records an activation and consumes one quota slot. The checks
// run in a fixed order so the first failing condition names the reason:
// existence, revocation, hardware binding, quota, expiry. The read and both
// writes share one transaction.
func (s *LicenseService) CheckOrActivate(ctx context.Context, key, hardwareID, sourceIP string) (CheckResult, error) {
	key = strings.TrimSpace(key)
	hardwareID = strings.TrimSpace(hardwareID)
	if key == "" || hardwareID == "" {
		return CheckResult{}, ErrInvalidInput
	}

	var result CheckResult
	now := s.now()

	err := s.store.WithTx(ctx, func(q SQLExecutor) error {
		lic, err := s.store.GetLicense(ctx, q, key)
		if errors.Is(err, ErrLicenseNotFound) {
			result = CheckResult{Reason: models.ReasonNotFound}
			return nil
		}
		if err != nil {
			return err
		}
		result.License = lic

		if lic.Status == models.LicenseStatusRevoked {
			result.Reason = models.ReasonRevoked
			return nil
		}
		if lic.HardwareID != "" && lic.HardwareID != hardwareID {
			result.Reason = models.ReasonHWIDMismatch
			return nil
		}
		if lic.MaxActivations > 0 && lic.ActivationsUsed >= lic.MaxActivations {
			result.Reason = models.ReasonQuotaExceeded
			return nil
		}
		if lic.Status == models.LicenseStatusExpired || lic.IsExpiredAt(now) {
			result.Reason = models.ReasonExpired
			return nil
		}

		nowStr := utils.FormatTime(now)
		consumed, err := s.store.ConsumeActivation(ctx, q, key, nowStr)
		if err != nil {
			return err
		}
		if !consumed {
			// Another transaction took the final slot between our read and
			// the guarded update.
			result.Reason = models.ReasonQuotaExceeded
			return nil
		}

		if err := s.store.InsertActivation(ctx, q, &models.Activation{
			LicenseKey: key,
			HardwareID: hardwareID,
			SourceIP:   sourceIP,
			CreatedAt:  nowStr,
		}); err != nil {
			return err
		}

		lic.ActivationsUsed++
		lic.UpdatedAt = nowStr
		result = CheckResult{Valid: true, License: lic}
		return nil
	})
	if err != nil {
		return CheckResult{}, err
	}

	if result.Valid {
		logger.WithFields(map[string]interface{}{
			"license_key": key,
			"hardware_id": hardwareID,
			"ip":          sourceIP,
		}).Info("License check passed")
	} else {
		logger.WithFields(map[string]interface{}{
			"license_key": key,
			"hardware_id": hardwareID,
			"reason":      result.Reason,
		}).Warn("License check rejected")
	}

	return result, nil
}

// Revoke permanently invalidates a license. Revoking an unknown key is a
// successful no-op so the operation stays idempotent.
func (s *LicenseService) Revoke(ctx context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrInvalidInput
	}

	nowStr := utils.FormatTime(s.now())
	return s.store.WithTx(ctx, func(q SQLExecutor) error {
		rows, err := s.store.UpdateLicenseStatus(ctx, q, key, models.LicenseStatusRevoked, nowStr)
		if err != nil {
			return err
		}
		if rows == 0 {
			logger.Debug("Revoke of unknown license key %s (no-op)", key)
		}
		return nil
	})
}

// ListLicenses returns the newest licenses first, bounded by limit.
func (s *LicenseService) ListLicenses(ctx context.Context, limit int) ([]models.License, error) {
	return s.store.ListLicenses(ctx, s.store.DB(), normalizeLimit(limit))
}

// ListActivations returns the newest activation events first, bounded by
// limit.
func (s *LicenseService) ListActivations(ctx context.Context, limit int) ([]models.Activation, error) {
	return s.store.ListActivations(ctx, s.store.DB(), normalizeLimit(limit))
}

// Stats returns the dashboard counters.
func (s *LicenseService) Stats(ctx context.Context) (map[string]int, error) {
	db := s.store.DB()

	total, err := s.store.CountLicenses(ctx, db, "")
	if err != nil {
		return nil, err
	}
	active, err := s.store.CountLicenses(ctx, db, models.LicenseStatusActive)
	if err != nil {
		return nil, err
	}
	revoked, err := s.store.CountLicenses(ctx, db, models.LicenseStatusRevoked)
	if err != nil {
		return nil, err
	}
	expired, err := s.store.CountLicenses(ctx, db, models.LicenseStatusExpired)
	if err != nil {
		return nil, err
	}
	activations, err := s.store.CountActivations(ctx, db)
	if err != nil {
		return nil, err
	}

	return map[string]int{
		"total_licenses":   total,
		"active_licenses":  active,
		"revoked_licenses": revoked,
		"expired_licenses": expired,
		"activations":      activations,
	}, nil
}

// MarkExpired flips past-due active licenses to expired; the scheduler calls
// this hourly.
func (s *LicenseService) MarkExpired(ctx context.Context) (int64, error) {
	nowStr := utils.FormatTime(s.now())

	var updated int64
	err := s.store.WithTx(ctx, func(q SQLExecutor) error {
		var err error
		updated, err = s.store.MarkExpired(ctx, q, nowStr, nowStr)
		return err
	})
	return updated, err
}

func normalizeLimit(limit int) int {
	if limit < 1 || limit > 1000 {
		return 200
	}
	return limit
}
