package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// sessionIDKey is the echo context key holding the request's session id.
const sessionIDKey = "session_id"

// Session reads the session cookie and exposes its value to downstream
// handlers. Requests without the cookie get a freshly minted id set on the
// response. The id is opaque to the core and is not rotated on login.
func Session(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var sid string
			if cookie, err := c.Cookie(cookieName); err == nil && cookie.Value != "" {
				sid = cookie.Value
			} else {
				sid = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			c.Set(sessionIDKey, sid)
			return next(c)
		}
	}
}

// SessionID returns the session id placed in the context by Session.
func SessionID(c echo.Context) string {
	sid, _ := c.Get(sessionIDKey).(string)
	return sid
}
