package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// IdentityHeader carries the caller's opaque identity token. The token is a
// bearer capability used for like bookkeeping and comment ownership only;
// it is never verified.
const IdentityHeader = "X-User-Identifier"

const identityKey = "identityToken"

// IdentityExtractor pulls the identity token off the request header and
// stores it on the echo context. Body-level identifier fields, when a
// request carries them, take precedence over the header in the handlers.
func IdentityExtractor() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := strings.TrimSpace(c.Request().Header.Get(IdentityHeader)); token != "" {
				c.Set(identityKey, token)
			}
			return next(c)
		}
	}
}

// IdentityFrom returns the identity token extracted for this request, or ""
// when the caller sent none.
func IdentityFrom(c echo.Context) string {
	if token, ok := c.Get(identityKey).(string); ok {
		return token
	}
	return ""
}

// MintIdentity generates a fresh identity token for callers that have none
// yet. The created resource echoes it back so the client can store it.
func MintIdentity() string {
	return uuid.NewString()
}
