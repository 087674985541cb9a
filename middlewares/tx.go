package middlewares

import (
	"strings"

	"zynvoice-backend/database"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TenantTx wraps each request in a database transaction pinned to the
// caller's tenant schema via SET LOCAL, so every query a handler runs sees
// exactly one tenant and either all of its writes land or none do. Must run
// after IsAuthenticatedHeader (needs the schema local) and after Idempotency
// (replay records must outlive a rolled-back handler transaction).
func TenantTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		schema, _ := c.Locals("schema").(string)
		if strings.TrimSpace(schema) == "" {
			return c.Next()
		}

		tx := database.DB.Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// SET LOCAL reverts when the transaction ends, so nothing leaks into
		// the connection pool.
		if e := tx.Exec(`SET LOCAL search_path = "` + schema + `", public`).Error; e != nil {
			tx.Rollback()
			return fiber.NewError(fiber.StatusInternalServerError, "failed to set tenant schema")
		}

		c.Locals("tx", tx)

		defer func() {
			if r := recover(); r != nil {
				tx.Rollback()
				panic(r)
			}
			if err != nil {
				tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				log.Error().Err(e).Str("schema", schema).Msg("transaction commit failed")
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		err = c.Next()
		return err
	}
}
