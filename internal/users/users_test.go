package users

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/testutil"
	"github.com/lexfirm/casedesk-backend/pkg/models"
)

func newTestApp(h *Handler, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(testutil.InjectAuth(userID, models.RoleLawyer))
	app.Put("/api/users/profile", h.UpdateProfile)
	app.Put("/api/users/change-password", h.ChangePassword)
	return app
}

func putJSON(t *testing.T, app *fiber.App, path string, body any) (int, []byte) {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("PUT", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp.StatusCode, buf.Bytes()
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		userID := testutil.SeedUser(t, tx, models.RoleLawyer)
		app := newTestApp(NewHandler(tx), userID)

		code, _ := putJSON(t, app, "/api/users/profile", map[string]any{
			"specialization": "Criminal Defense",
			"barCouncilId":   "BC-1234",
		})
		require.Equal(t, 200, code)

		var u models.User
		require.NoError(t, tx.First(&u, "id = ?", userID).Error)
		assert.Equal(t, "Criminal Defense", u.Specialization)
		assert.Equal(t, "BC-1234", u.BarCouncilID)
		assert.NotEmpty(t, u.Name, "untouched fields keep their values")
	})
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		userID := testutil.SeedUser(t, tx, models.RoleLawyer)
		otherID := testutil.SeedUser(t, tx, models.RoleLawyer)

		var other models.User
		require.NoError(t, tx.First(&other, "id = ?", otherID).Error)

		app := newTestApp(NewHandler(tx), userID)
		code, _ := putJSON(t, app, "/api/users/profile", map[string]any{"email": other.Email})
		assert.Equal(t, 409, code)
	})
}

func TestChangePassword(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		userID := testutil.SeedUser(t, tx, models.RoleLawyer)
		hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.DefaultCost)
		require.NoError(t, err)
		require.NoError(t, tx.Model(&models.User{}).Where("id = ?", userID).
			Update("password_hash", string(hash)).Error)

		app := newTestApp(NewHandler(tx), userID)

		// Wrong current password
		code, _ := putJSON(t, app, "/api/users/change-password", map[string]any{
			"currentPassword": "nope",
			"newPassword":     "new-password",
		})
		assert.Equal(t, 401, code)

		// Too-short new password
		code, _ = putJSON(t, app, "/api/users/change-password", map[string]any{
			"currentPassword": "old-password",
			"newPassword":     "short",
		})
		assert.Equal(t, 400, code)

		// Correct current password
		code, _ = putJSON(t, app, "/api/users/change-password", map[string]any{
			"currentPassword": "old-password",
			"newPassword":     "new-password",
		})
		require.Equal(t, 200, code)

		var u models.User
		require.NoError(t, tx.First(&u, "id = ?", userID).Error)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("new-password")))
	})
}
