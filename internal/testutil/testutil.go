// Package testutil holds shared helpers for handler tests that run
// against a real Postgres database (TEST_DATABASE_URL).
package testutil

import (
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/pkg/models"
)

// OpenDB loads TEST_DATABASE_URL, opens a Postgres connection, runs
// migrations, and registers a cleanup that truncates test tables.
// Tests are skipped when TEST_DATABASE_URL is not set.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()
	_ = godotenv.Load()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Client{}, &models.Case{},
		&models.CaseDocument{}, &models.CaseNote{}, &models.TimelineEvent{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		sql := `
TRUNCATE TABLE
	notifications,
	case_timeline_events,
	case_notes,
	case_documents,
	cases,
	clients,
	users
RESTART IDENTITY CASCADE`
		if err := db.Exec(sql).Error; err != nil {
			t.Logf("truncate failed (ignored): %v", err)
		}
	})

	return db
}

// WithTx wraps a function in a DB transaction and commits it at the end.
// If the function panics, the transaction is rolled back and the panic rethrown.
func WithTx(t *testing.T, db *gorm.DB, fn func(tx *gorm.DB)) {
	t.Helper()
	tx := db.Begin()
	if tx.Error != nil {
		t.Fatalf("begin tx: %v", tx.Error)
	}
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback().Error
			panic(r)
		}
	}()
	fn(tx)
	if err := tx.Commit().Error; err != nil {
		t.Fatalf("commit tx: %v", err)
	}
}

// InjectAuth puts auth locals into Fiber context so handlers see an
// authenticated caller without a real JWT.
func InjectAuth(userID uuid.UUID, role models.Role) fiber.Handler {
	id := userID.String()
	return func(c *fiber.Ctx) error {
		c.Locals("userID", id)
		c.Locals("email", "test@x.com")
		c.Locals("role", string(role))
		return c.Next()
	}
}

// SeedUser inserts a user with the given role and a unique email.
func SeedUser(t *testing.T, tx *gorm.DB, role models.Role) uuid.UUID {
	t.Helper()
	id := uuid.New()
	if err := tx.Create(&models.User{
		ID:           id,
		Name:         "User " + id.String()[:6],
		Email:        string(role) + "_" + id.String()[:8] + "@x.com",
		PasswordHash: "x",
		Role:         role,
	}).Error; err != nil {
		t.Fatal(err)
	}
	return id
}
