package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TenantSession returns a fresh session with search_path pinned to the given
// tenant schema.
func TenantSession(schema string) (*gorm.DB, error) {
	schema = strings.TrimSpace(schema)
	if schema == "" {
		return nil, errors.New("empty schema name")
	}
	if DB == nil {
		return nil, errors.New("database not initialized")
	}

	sess := DB.Session(&gorm.Session{NewDB: true})
	if err := sess.Exec(`SET search_path = "` + schema + `", public`).Error; err != nil {
		return nil, fmt.Errorf("set search_path failed: %w", err)
	}
	return sess, nil
}

// GetTenantDB returns a *gorm.DB bound to the request's tenant. It prefers
// the per-request transaction installed by middlewares.TenantTx and falls
// back to a schema-pinned session.
func GetTenantDB(c *fiber.Ctx) (*gorm.DB, error) {
	if v := c.Locals("tx"); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx, nil
		}
	}

	schema, _ := c.Locals("schema").(string)
	return TenantSession(schema)
}
