package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// Init opens the sqlite database and creates the schema. The time
// format option makes timestamps readable by sqlite's date functions.
func Init(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dbPath+"?_time_format=sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// SeedAdmin creates the default organization and super-admin account on
// an empty database. Idempotent: does nothing once any user exists.
func SeedAdmin(db *sql.DB, adminEmail, adminPassword string) error {
	if err := createDefaultAdmin(db, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("failed to create default admin: %w", err)
	}
	return nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS organizations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			base_currency TEXT NOT NULL DEFAULT 'NGN',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL REFERENCES organizations(id),
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff',
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS contacts (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			country TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			subscribed BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(organization_id, email)
		)`,

		`CREATE TABLE IF NOT EXISTS senders (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			smtp_host TEXT NOT NULL,
			smtp_port INTEGER NOT NULL DEFAULT 587,
			username TEXT NOT NULL,
			password TEXT NOT NULL,
			secure TEXT NOT NULL DEFAULT 'tls',
			dkim_selector TEXT NOT NULL DEFAULT '',
			dkim_private_key TEXT NOT NULL DEFAULT '',
			emails_sent_today INTEGER NOT NULL DEFAULT 0,
			max_daily_limit INTEGER NOT NULL DEFAULT 200,
			last_reset_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			is_active BOOLEAN DEFAULT 1,
			mx_verified BOOLEAN DEFAULT 0,
			spf_verified BOOLEAN DEFAULT 0,
			dkim_verified BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS receivers (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			email TEXT NOT NULL,
			imap_host TEXT NOT NULL,
			imap_port INTEGER NOT NULL DEFAULT 993,
			username TEXT NOT NULL,
			password TEXT NOT NULL,
			is_active BOOLEAN DEFAULT 1,
			last_fetched_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS campaigns (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'draft',
			subject TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			sender_ids TEXT NOT NULL DEFAULT '[]',
			target_contact_ids TEXT NOT NULL DEFAULT '[]',
			tracking_enabled BOOLEAN DEFAULT 1,
			sent_count INTEGER NOT NULL DEFAULT 0,
			delivered_count INTEGER NOT NULL DEFAULT 0,
			bounced_count INTEGER NOT NULL DEFAULT 0,
			opened_contact_ids TEXT NOT NULL DEFAULT '[]',
			clicked_contact_ids TEXT NOT NULL DEFAULT '[]',
			contact_cursor INTEGER NOT NULL DEFAULT 0,
			sender_cursor INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS email_messages (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			receiver_id TEXT NOT NULL DEFAULT '',
			folder TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'unread',
			message_id TEXT NOT NULL DEFAULT '',
			from_addr TEXT NOT NULL DEFAULT '',
			to_addr TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			text_body TEXT NOT NULL DEFAULT '',
			html_body TEXT NOT NULL DEFAULT '',
			received_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_messages_folder ON email_messages(organization_id, folder)`,
		`CREATE INDEX IF NOT EXISTS idx_email_messages_message_id ON email_messages(organization_id, message_id)`,

		`CREATE TABLE IF NOT EXISTS email_logs (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			sender_email TEXT NOT NULL DEFAULT '',
			recipient_email TEXT NOT NULL DEFAULT '',
			subject TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			error_class TEXT NOT NULL DEFAULT '',
			error_detail TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS tracking_events (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			campaign_id TEXT NOT NULL,
			contact_id TEXT NOT NULL,
			event_type TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			ip_address TEXT NOT NULL DEFAULT '',
			browser TEXT NOT NULL DEFAULT '',
			os TEXT NOT NULL DEFAULT '',
			device TEXT NOT NULL DEFAULT '',
			country TEXT NOT NULL DEFAULT '',
			is_unique BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tracking_events_campaign ON tracking_events(campaign_id, contact_id, event_type)`,

		`CREATE TABLE IF NOT EXISTS employees (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			email TEXT NOT NULL,
			department TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			salary REAL NOT NULL DEFAULT 0,
			hire_date DATETIME DEFAULT CURRENT_TIMESTAMP,
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS payrolls (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			month INTEGER NOT NULL,
			year INTEGER NOT NULL,
			items TEXT NOT NULL DEFAULT '[]',
			totals TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(organization_id, month, year)
		)`,

		`CREATE TABLE IF NOT EXISTS leave_requests (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			employee_id TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'annual',
			start_date DATETIME NOT NULL,
			end_date DATETIME NOT NULL,
			reason TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS leave_balances (
			id TEXT PRIMARY KEY,
			employee_id TEXT NOT NULL,
			year INTEGER NOT NULL,
			total_days REAL NOT NULL DEFAULT 20,
			used_days REAL NOT NULL DEFAULT 0,
			UNIQUE(employee_id, year)
		)`,

		`CREATE TABLE IF NOT EXISTS benefits (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			monthly_cost REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS compliance_requirements (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL,
			authority TEXT NOT NULL DEFAULT '',
			due_day INTEGER NOT NULL DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			code TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			parent_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(organization_id, code)
		)`,

		`CREATE TABLE IF NOT EXISTS journal_entries (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			date DATETIME NOT NULL,
			memo TEXT NOT NULL DEFAULT '',
			lines TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS affiliates (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			user_id TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			code TEXT UNIQUE NOT NULL,
			commission_rate REAL NOT NULL DEFAULT 0.1,
			balance REAL NOT NULL DEFAULT 0,
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS commissions (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			affiliate_id TEXT NOT NULL,
			order_ref TEXT NOT NULL DEFAULT '',
			amount REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			payout_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS payouts (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			affiliate_id TEXT NOT NULL,
			amount REAL NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			failure_reason TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS stores (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			name TEXT NOT NULL,
			base_url TEXT NOT NULL,
			consumer_key TEXT NOT NULL,
			consumer_secret TEXT NOT NULL,
			currency TEXT NOT NULL DEFAULT 'USD',
			is_active BOOLEAN DEFAULT 1,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			organization_id TEXT NOT NULL,
			actor_id TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL,
			entity TEXT NOT NULL,
			entity_id TEXT NOT NULL DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}

	return nil
}

func createDefaultAdmin(db *sql.DB, email, password string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	orgID := uuid.New().String()
	now := time.Now().UTC()
	if _, err := db.Exec(
		"INSERT INTO organizations (id, name, base_currency, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		orgID, "Default Organization", "NGN", now, now,
	); err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT INTO users (id, organization_id, name, email, password, role, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)",
		uuid.New().String(), orgID, "Administrator", email, string(hashed), "super-admin", now, now,
	)
	return err
}
