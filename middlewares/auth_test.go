package middlewares

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/whoami", IsAuthenticatedHeader(), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("userID"),
			"schema":  c.Locals("schema"),
		})
	})
	return app
}

func TestAuthRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	app := newAuthTestApp()

	token, err := GenerateJWT("user-123", "acme_gmbh")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	app := newAuthTestApp()

	resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	app := newAuthTestApp()

	req := httptest.NewRequest("GET", "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
