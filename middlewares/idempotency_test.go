package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"zynvoice-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdempotencyStore struct {
	records map[string]models.IdempotencyKey
	saved   int
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{records: map[string]models.IdempotencyKey{}}
}

func (s *fakeIdempotencyStore) FindOrCreate(schema string, rec models.IdempotencyKey) (models.IdempotencyKey, error) {
	if existing, ok := s.records[rec.Key]; ok {
		return existing, nil
	}
	s.records[rec.Key] = rec
	return rec, nil
}

func (s *fakeIdempotencyStore) SaveResponse(schema, key string, status int, body []byte) error {
	rec := s.records[key]
	rec.ResponseStatus = status
	rec.ResponseBody = body
	s.records[key] = rec
	s.saved++
	return nil
}

// newIdempotencyTestApp wires the handler behind a stub auth layer and counts
// how often the mutating handler actually runs.
func newIdempotencyTestApp(store idempotencyStore, handlerRuns *int) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("schema", "acme_gmbh")
		c.Locals("userID", "user-123")
		return c.Next()
	})
	app.Use(idempotencyHandler(store))
	app.Post("/payments", func(c *fiber.Ctx) error {
		*handlerRuns++
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"payment": *handlerRuns})
	})
	return app
}

func TestIdempotencyFirstRequestRunsAndStores(t *testing.T) {
	store := newFakeIdempotencyStore()
	runs := 0
	app := newIdempotencyTestApp(store, &runs)

	req := httptest.NewRequest("POST", "/payments", strings.NewReader(`{"amount":50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "pay-1")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, 1, runs)
	require.Equal(t, 1, store.saved)
	assert.Equal(t, fiber.StatusCreated, store.records["pay-1"].ResponseStatus)
}

func TestIdempotencyReplayDoesNotRerunHandler(t *testing.T) {
	store := newFakeIdempotencyStore()
	runs := 0
	app := newIdempotencyTestApp(store, &runs)

	body := `{"amount":50}`
	send := func() (string, int) {
		req := httptest.NewRequest("POST", "/payments", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", "pay-1")
		resp, err := app.Test(req)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return string(raw), resp.StatusCode
	}

	first, status := send()
	require.Equal(t, fiber.StatusCreated, status)
	require.Equal(t, 1, runs)

	second, status := send()
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 1, runs, "replay must not run the mutating handler again")
	assert.Equal(t, first, second, "replay must return the stored response")
	assert.Equal(t, 1, store.saved, "replay must not overwrite the stored response")
}

func TestIdempotencyKeyReuseWithDifferentBodyConflicts(t *testing.T) {
	store := newFakeIdempotencyStore()
	runs := 0
	app := newIdempotencyTestApp(store, &runs)

	req := httptest.NewRequest("POST", "/payments", strings.NewReader(`{"amount":50}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "pay-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	req = httptest.NewRequest("POST", "/payments", strings.NewReader(`{"amount":9000}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", "pay-1")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, 1, runs)
}

func TestIdempotencySkipsReadsAndKeylessRequests(t *testing.T) {
	store := newFakeIdempotencyStore()
	runs := 0
	app := newIdempotencyTestApp(store, &runs)
	app.Get("/payments", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest("GET", "/payments", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest("POST", "/payments", strings.NewReader(`{"amount":50}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Empty(t, store.records)
	assert.Equal(t, 0, store.saved)
}
