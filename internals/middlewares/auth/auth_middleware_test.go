package auth

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterbilling_backend/internals/features/users/auth/service"
	helper "waterbilling_backend/internals/helpers"
	"waterbilling_backend/internals/testutil"
)

func newApp(t *testing.T) (*fiber.App, *service.AuthService) {
	t.Helper()
	auth := service.NewAuthService(testutil.NewTestDB(t), "test-secret")
	_, err := auth.EnsureAdmin(context.Background(), "admin", "supersecret")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api", SessionMiddleware(auth))
	api.Get("/bills", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(helper.LocUserID).(string))
	})
	api.Get("/validate-id", func(c *fiber.Ctx) error { return c.SendString("public") })
	return app, auth
}

func TestSessionMiddlewareRejectsAPIWithoutToken(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest("GET", "/api/bills", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddlewareRedirectsBrowser(t *testing.T) {
	app, _ := newApp(t)

	req := httptest.NewRequest("GET", "/api/bills?page=2", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Location"), "/login?next=")
}

func TestSessionMiddlewareAcceptsCookieAndBearer(t *testing.T) {
	app, auth := newApp(t)
	sess, err := auth.Login(context.Background(), "admin", "supersecret")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/bills", nil)
	req.Header.Set("Cookie", helper.AccessTokenCookie+"="+sess.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest("GET", "/api/bills", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestSessionMiddlewareRejectsBlacklistedToken(t *testing.T) {
	app, auth := newApp(t)
	sess, err := auth.Login(context.Background(), "admin", "supersecret")
	require.NoError(t, err)
	require.NoError(t, auth.Logout(context.Background(), sess.Token))

	req := httptest.NewRequest("GET", "/api/bills", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestSessionMiddlewareSkipsPublicPaths(t *testing.T) {
	app, _ := newApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/api/validate-id?id=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireSuperuser(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	app.Get("/staff", func(c *fiber.Ctx) error {
		c.Locals("is_superuser", false)
		return c.Next()
	}, RequireSuperuser(), func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/admin", func(c *fiber.Ctx) error {
		c.Locals("is_superuser", true)
		return c.Next()
	}, RequireSuperuser(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/staff", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
