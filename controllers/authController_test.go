package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogoutIsStateless(t *testing.T) {
	app := fiber.New()
	app.Post("/auth/logout", Logout)

	resp, err := app.Test(httptest.NewRequest("POST", "/auth/logout", nil))
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Set-Cookie"), "bearer auth has no session cookie to clear")
}
