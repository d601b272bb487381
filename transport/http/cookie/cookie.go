// Package cookie carries the session token between the browser and the API.
package cookie

import (
	"net/http"
	"tasktrack/shared/constant"
	"time"
)

const rootPath = "/"

// Set writes the session cookie. A token that has already expired clears the cookie instead.
func Set(writer http.ResponseWriter, token string, expiresAt time.Time, secure bool) {
	maxAge := int(time.Until(expiresAt) / time.Second)
	if maxAge <= 0 {
		Clear(writer, secure)

		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constant.SessionCookieName,
		Value:    token,
		Path:     rootPath,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func Clear(writer http.ResponseWriter, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constant.SessionCookieName,
		Value:    "",
		Path:     rootPath,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read returns the session token carried by the request, if any.
func Read(request *http.Request) (string, bool) {
	c, err := request.Cookie(constant.SessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}

	return c.Value, true
}
