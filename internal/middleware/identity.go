package middleware

// identity.go provides the user identifier lookup shared by the cache and
// rate-limit middlewares. Both key on the authenticated user so that one
// identity's scoped responses and quota never bleed into another's.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID renders the authenticated user id from context as a string.
// JWT numeric claims arrive as float64; other shapes are handled for tests
// and future token formats. Unauthenticated requests map to "anon".
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case string:
		if v != "" {
			return v
		}
	case float64:
		return strconv.FormatUint(uint64(v), 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	}
	return "anon"
}
