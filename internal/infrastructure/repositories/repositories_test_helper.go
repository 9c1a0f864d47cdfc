package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		username TEXT UNIQUE,
		mobile TEXT UNIQUE,
		name TEXT,
		photo TEXT,
		bio TEXT,
		password_hash TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		is_banned BOOLEAN NOT NULL DEFAULT 0,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		force_password_change BOOLEAN NOT NULL DEFAULT 0,
		setup_state TEXT NOT NULL DEFAULT 'unverified',
		verification_otp TEXT,
		verification_otp_expiry DATETIME,
		settings_theme TEXT DEFAULT 'system',
		settings_notifications BOOLEAN DEFAULT 1,
		settings_onboarding_complete BOOLEAN DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE(email, role)
	);`)
}

func createExpertTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE experts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		under_verification BOOLEAN NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createPaymentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE payments (
		id TEXT PRIMARY KEY,
		appointment_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		expert_id TEXT,
		organisation_id TEXT,
		amount REAL NOT NULL,
		currency TEXT DEFAULT 'AUD',
		gateway_id TEXT NOT NULL UNIQUE,
		method TEXT DEFAULT 'card',
		status TEXT NOT NULL DEFAULT 'pending',
		expert_amount REAL NOT NULL DEFAULT 0,
		org_amount REAL NOT NULL DEFAULT 0,
		admin_fee REAL NOT NULL DEFAULT 0,
		tax REAL NOT NULL DEFAULT 0,
		settled BOOLEAN NOT NULL DEFAULT 0,
		settlement_date DATETIME,
		settlement_reference TEXT,
		refunded_amount REAL NOT NULL DEFAULT 0,
		refund_reason TEXT,
		refunded_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createAppointmentTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE appointments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		expert_id TEXT NOT NULL,
		appointment_date DATETIME NOT NULL,
		appointment_time TEXT NOT NULL,
		service_name TEXT NOT NULL,
		appointment_type TEXT NOT NULL,
		duration INTEGER NOT NULL,
		price REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		payment_status TEXT NOT NULL DEFAULT 'unpaid',
		created_at DATETIME,
		updated_at DATETIME
	);`)
}
