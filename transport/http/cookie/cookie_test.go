package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"tasktrack/shared/constant"
	"tasktrack/transport/http/cookie"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSet(t *testing.T) {
	recorder := httptest.NewRecorder()
	expiresAt := time.Now().Add(time.Hour)

	cookie.Set(recorder, "signed-token", expiresAt, true)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)

	c := cookies[0]
	assert.Equal(t, constant.SessionCookieName, c.Name)
	assert.Equal(t, "signed-token", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.InDelta(t, time.Hour.Seconds(), float64(c.MaxAge), 2)
	assert.WithinDuration(t, expiresAt, c.Expires, time.Second)
}

func TestSet_ExpiredTokenClears(t *testing.T) {
	recorder := httptest.NewRecorder()

	cookie.Set(recorder, "stale", time.Now().Add(-time.Minute), false)

	header := recorder.Header().Get("Set-Cookie")
	assert.Contains(t, header, "token=;")
	assert.Contains(t, header, "Max-Age=0")
}

func TestClear(t *testing.T) {
	recorder := httptest.NewRecorder()

	cookie.Clear(recorder, false)

	header := recorder.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "token=;"))
	assert.Contains(t, header, "Path=/")
	assert.Contains(t, header, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	assert.Contains(t, header, "Max-Age=0")
	assert.Contains(t, header, "HttpOnly")
	assert.NotContains(t, header, "Secure")
}

func TestRead(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/auth/me", nil)

	_, ok := cookie.Read(request)
	assert.False(t, ok)

	request.AddCookie(&http.Cookie{Name: constant.SessionCookieName, Value: ""})
	_, ok = cookie.Read(request)
	assert.False(t, ok)

	request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	request.AddCookie(&http.Cookie{Name: constant.SessionCookieName, Value: "abc"})

	token, ok := cookie.Read(request)
	assert.True(t, ok)
	assert.Equal(t, "abc", token)
}
