package database

import (
	"database/sql"
	"fmt"
	"strings"

	"hwlicense/logger"
	"hwlicense/utils"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database, creates the schema, and seeds the
// default admin account.
// driver: "sqlite" or "mysql"; dsn: SQLite file path or MySQL DSN.
func Open(driver, dsn string) (*sql.DB, error) {
	driver = strings.ToLower(strings.TrimSpace(driver))
	if driver == "" {
		driver = "sqlite"
	}
	if dsn == "" && driver == "sqlite" {
		dsn = "./license.db"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if driver == "sqlite" {
		// A single connection serialises writers and avoids SQLITE_BUSY under
		// concurrent activations.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := createTables(db, driver); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := seedDefaultAdmin(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed default admin: %w", err)
	}

	logger.Info("Database initialized (driver: %s)", driver)
	return db, nil
}

// createTables builds the schema for either driver.
func createTables(db *sql.DB, driver string) error {
	autoinc := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "mysql" {
		autoinc = "BIGINT AUTO_INCREMENT PRIMARY KEY"
	}

	statements := []string{
		`CREATE TABLE IF NOT EXISTS licenses (
			id VARCHAR(64) PRIMARY KEY,
			license_key VARCHAR(64) UNIQUE NOT NULL,
			hardware_id VARCHAR(255) NOT NULL DEFAULT '',
			max_activations INT NOT NULL DEFAULT 0,
			activations_used INT NOT NULL DEFAULT 0,
			valid_until VARCHAR(50) NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			notes TEXT,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS activations (
			id %s,
			license_key VARCHAR(64) NOT NULL,
			hardware_id VARCHAR(255) NOT NULL,
			source_ip VARCHAR(64) NOT NULL DEFAULT '',
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`, autoinc),

		`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password VARCHAR(255) NOT NULL,
			created_at VARCHAR(50) NOT NULL DEFAULT '',
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_activity_logs (
			id %s,
			admin VARCHAR(100) NOT NULL,
			action VARCHAR(100) NOT NULL,
			details TEXT,
			created_at VARCHAR(50) NOT NULL DEFAULT ''
		)`, autoinc),

		`CREATE INDEX IF NOT EXISTS idx_licenses_status ON licenses(status)`,
		`CREATE INDEX IF NOT EXISTS idx_licenses_valid_until ON licenses(valid_until)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_key ON activations(license_key)`,
		`CREATE INDEX IF NOT EXISTS idx_activations_created ON activations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_admin_logs_created ON admin_activity_logs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			// MySQL before 8.0.29 rejects IF NOT EXISTS on indexes.
			if strings.Contains(err.Error(), "already exists") || strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return nil
}

// seedDefaultAdmin creates the initial dashboard account when the table is
// empty.
func seedDefaultAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := utils.FormatTime(utils.NowUTC())
	_, err = db.Exec(
		`INSERT INTO admins (id, username, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		utils.GenerateID("adm"), "admin", hashed, now, now,
	)
	if err != nil {
		return err
	}

	logger.Info("Default admin created (username: admin, password: admin123)")
	return nil
}
