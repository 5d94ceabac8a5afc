package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lexfirm/casedesk-backend/internal/testutil"
	"github.com/lexfirm/casedesk-backend/pkg/models"
)

const testSecret = "test-secret"

func newTestApp(tx *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	h := NewHandler(tx, testSecret, false)
	app.Post("/api/auth/register", h.Register)
	app.Post("/api/auth/login", h.Login)
	app.Post("/api/auth/logout", h.Logout)
	app.Get("/api/auth/me", RequireAuth(testSecret), h.Me)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func authCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, ck := range resp.Cookies() {
		if ck.Name == CookieName {
			return ck
		}
	}
	t.Fatal("no auth cookie in response")
	return nil
}

func TestRegister_Login_Me_CookieFlow(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		resp := postJSON(t, app, "/api/auth/register", map[string]any{
			"name":     "Ada Counsel",
			"email":    "Ada@Example.COM",
			"password": "hunter22",
		})
		require.Equal(t, 201, resp.StatusCode)

		ck := authCookie(t, resp)
		assert.True(t, ck.HttpOnly)

		var out struct {
			User struct {
				Email string      `json:"email"`
				Role  models.Role `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "ada@example.com", out.User.Email, "email is normalized")
		assert.Equal(t, models.RoleLawyer, out.User.Role, "role defaults to lawyer")

		// The cookie authenticates /me.
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.AddCookie(ck)
		meResp, err := app.Test(req, -1)
		require.NoError(t, err)
		require.Equal(t, 200, meResp.StatusCode)
		require.NoError(t, json.NewDecoder(meResp.Body).Decode(&out))
		assert.Equal(t, "ada@example.com", out.User.Email)

		// A Bearer header works for API clients too.
		req = httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer "+ck.Value)
		bearerResp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 200, bearerResp.StatusCode)

		// Login with the registered credentials.
		resp = postJSON(t, app, "/api/auth/login", map[string]any{
			"email":    "ada@example.com",
			"password": "hunter22",
		})
		assert.Equal(t, 200, resp.StatusCode)
	})
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		body := map[string]any{"name": "Ada", "email": "dup@example.com", "password": "hunter22"}
		resp := postJSON(t, app, "/api/auth/register", body)
		require.Equal(t, 201, resp.StatusCode)

		resp = postJSON(t, app, "/api/auth/register", body)
		require.Equal(t, 409, resp.StatusCode)

		var out models.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "CONFLICT", out.Code)
	})
}

// A unique violation must surface as gorm.ErrDuplicatedKey so the create
// fallbacks return CONFLICT only for genuine duplicates, not for every
// persistence error. Runs outside a wrapping transaction because the
// violation aborts one on Postgres.
func TestUniqueViolation_TranslatesToDuplicatedKey(t *testing.T) {
	db := testutil.OpenDB(t)

	first := models.User{Name: "Ada", Email: "unique-check@example.com", PasswordHash: "x", Role: models.RoleLawyer}
	require.NoError(t, db.Create(&first).Error)

	dup := models.User{Name: "Eve", Email: "unique-check@example.com", PasswordHash: "x", Role: models.RoleLawyer}
	err := db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestRegister_Validation(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		resp := postJSON(t, app, "/api/auth/register", map[string]any{
			"name": "A", "email": "not-an-email", "password": "short",
		})
		require.Equal(t, 400, resp.StatusCode)

		var out models.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		for _, field := range []string{"name", "email", "password"} {
			assert.NotEmpty(t, out.Errors[field], field)
		}
	})
}

func TestLogin_WrongCredentials(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		resp := postJSON(t, app, "/api/auth/register", map[string]any{
			"name": "Ada", "email": "ada@example.com", "password": "hunter22",
		})
		require.Equal(t, 201, resp.StatusCode)

		resp = postJSON(t, app, "/api/auth/login", map[string]any{
			"email": "ada@example.com", "password": "wrong-password",
		})
		assert.Equal(t, 401, resp.StatusCode)

		resp = postJSON(t, app, "/api/auth/login", map[string]any{
			"email": "nobody@example.com", "password": "hunter22",
		})
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestMe_RequiresToken(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/me", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)

		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err = app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestLogout_ClearsCookie(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.WithTx(t, db, func(tx *gorm.DB) {
		app := newTestApp(tx)

		resp, err := app.Test(httptest.NewRequest("POST", "/api/auth/logout", nil), -1)
		require.NoError(t, err)
		require.Equal(t, 200, resp.StatusCode)

		ck := authCookie(t, resp)
		assert.Empty(t, ck.Value)
	})
}
