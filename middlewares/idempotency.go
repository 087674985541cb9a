package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"zynvoice-backend/database"
	"zynvoice-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxIdempotencyKeyLen = 128

// idempotencyStore persists idempotency records for one tenant schema.
type idempotencyStore interface {
	// FindOrCreate returns the authoritative record for rec.Key: the existing
	// row if the key was seen before, otherwise rec inserted as pending.
	FindOrCreate(schema string, rec models.IdempotencyKey) (models.IdempotencyKey, error)
	// SaveResponse records the completed response for a pending key.
	SaveResponse(schema, key string, status int, body []byte) error
}

// Idempotency processes Idempotency-Key for mutating HTTP methods. A key seen
// for the first time lets the request run and stores its response; a replay of
// a completed key sends the stored response back without running the handler
// again; reusing a key with a different request is a conflict.
func Idempotency() fiber.Handler {
	return idempotencyHandler(gormIdempotencyStore{})
}

func idempotencyHandler(store idempotencyStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get("Idempotency-Key"))
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		schema, _ := c.Locals("schema").(string)
		userID, _ := c.Locals("userID").(string)
		if schema == "" || userID == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
		}

		reqHash := requestHash(method, c.OriginalURL(), c.Body(), schema, userID)
		existing, err := store.FindOrCreate(schema, models.IdempotencyKey{
			Key:          key,
			RequestHash:  reqHash,
			Method:       method,
			Path:         c.OriginalURL(),
			TenantSchema: schema,
			UserID:       userID,
		})
		if err != nil {
			return err
		}

		if existing.RequestHash != reqHash {
			return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
		}
		if existing.ResponseStatus != 0 && existing.ResponseBody != nil {
			// Replay: the first response is already stored. Running the
			// handler again would mutate twice.
			c.Status(existing.ResponseStatus)
			return c.Send(existing.ResponseBody)
		}

		// First sight (or a concurrent call that found the key still pending):
		// run the handler once.
		if err := c.Next(); err != nil {
			return err
		}

		resp := c.Response().Body()
		blob := make([]byte, len(resp))
		copy(blob, resp)
		if err := store.SaveResponse(schema, key, c.Response().StatusCode(), blob); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("idempotency response store failed")
		}
		return nil
	}
}

// requestHash builds a deterministic digest of method|path|body|schema|user.
func requestHash(method, path string, body []byte, schema, userID string) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	h.Write([]byte{'\n'})
	h.Write([]byte(schema))
	h.Write([]byte{'\n'})
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

// gormIdempotencyStore keeps records in the tenant schema. Each call uses its
// own short transaction with SET LOCAL search_path so nothing leaks onto
// pooled connections, and so stored responses outlive a rolled-back handler
// transaction.
type gormIdempotencyStore struct{}

func (gormIdempotencyStore) FindOrCreate(schema string, rec models.IdempotencyKey) (models.IdempotencyKey, error) {
	var existing models.IdempotencyKey
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency schema pin failed")
		}

		err := tx.Where("key = ?", rec.Key).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
		}

		if err := tx.Create(&rec).Error; err != nil {
			// Lost a create race on the unique key: the winner's row is
			// authoritative.
			if e := tx.Where("key = ?", rec.Key).First(&existing).Error; e != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
			}
			return nil
		}
		existing = rec
		return nil
	})
	return existing, err
}

func (gormIdempotencyStore) SaveResponse(schema, key string, status int, body []byte) error {
	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error; err != nil {
			return err
		}
		now := time.Now().UTC()
		return tx.Model(&models.IdempotencyKey{}).
			Where("key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   body,
				"completed_at":    &now,
			}).Error
	})
}
