package middlewares

import (
	"errors"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

const (
	bearerPrefix = "Bearer "
	tokenIssuer  = "zynvoice"
	tokenTTL     = 24 * time.Hour
)

// Claims is the JWT payload: subject carries the user id, Schema the tenant
// schema every subsequent query is pinned to.
type Claims struct {
	Schema string `json:"schema"`
	jwt.RegisteredClaims
}

var (
	secretOnce sync.Once
	jwtSecret  []byte
	secretErr  error
)

func loadJWTSecret() error {
	secretOnce.Do(func() {
		sec := strings.TrimSpace(os.Getenv("JWT_SECRET_KEY"))
		if sec == "" {
			sec = strings.TrimSpace(os.Getenv("JWT_SECRET"))
		}
		if sec == "" {
			secretErr = errors.New("JWT secret not configured (set JWT_SECRET_KEY or JWT_SECRET)")
			return
		}
		jwtSecret = []byte(sec)
	})
	return secretErr
}

// bearerToken extracts the raw token from an Authorization header, accepting
// any case for the Bearer prefix.
func bearerToken(header string) string {
	if len(header) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// IsAuthenticatedHeader guards the protected route group. It accepts only
// HS256 tokens signed with the configured secret and stashes the user id and
// tenant schema in request locals for the tx middleware and controllers.
func IsAuthenticatedHeader() fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *fiber.Ctx) error {
		if err := loadJWTSecret(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "server auth not configured")
		}

		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing or invalid Authorization header")
		}

		var claims Claims
		token, err := parser.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}
		if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Schema) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token missing subject or schema")
		}

		c.Locals("userID", claims.Subject)
		c.Locals("schema", claims.Schema)
		return c.Next()
	}
}

// GenerateJWT signs an HS256 token binding a user to their tenant schema.
func GenerateJWT(userID, schema string) (string, error) {
	if err := loadJWTSecret(); err != nil {
		return "", err
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		Schema: schema,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    tokenIssuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(jwtSecret)
}
