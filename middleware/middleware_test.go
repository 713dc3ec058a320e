package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	fbAuth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

const secret = "test-secret"

func quietLog() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Session(secret, false, quietLog()))
	r.Use(mw...)
	r.GET("/t", func(c *gin.Context) {
		s := authpkg.SessionFromContext(c.Request.Context())
		if s == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, string(s.Role))
	})
	return r
}

func cookieFor(t *testing.T, role entity.Role, issued time.Time) *http.Cookie {
	t.Helper()
	token, err := authpkg.SignSession(secret, &authpkg.Session{UserID: uuid.New(), Email: "x@example.com", Role: role}, issued)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func get(r http.Handler, cookie *http.Cookie, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/t", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSessionResolvesCookie(t *testing.T) {
	r := newEngine()
	w := get(r, cookieFor(t, entity.RoleAdmin, time.Now()), nil)
	assert.Equal(t, "ADMIN", w.Body.String())

	w = get(r, nil, nil)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestSessionClearsExpiredCookie(t *testing.T) {
	r := newEngine()
	w := get(r, cookieFor(t, entity.RoleUser, time.Now().Add(-authpkg.SessionTTL-time.Hour)), nil)
	assert.Equal(t, "anonymous", w.Body.String())
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"=;")

	w = get(r, &http.Cookie{Name: SessionCookie, Value: "garbage"}, nil)
	assert.Equal(t, "anonymous", w.Body.String())
}

func TestRequireSession(t *testing.T) {
	r := newEngine(RequireSession())
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, cookieFor(t, entity.RoleUser, time.Now()), nil).Code)
}

func TestRequireRoles(t *testing.T) {
	r := newEngine(RequireRoles(entity.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, nil).Code)

	w := get(r, cookieFor(t, entity.RoleUser, time.Now()), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)

	assert.Equal(t, http.StatusOK, get(r, cookieFor(t, entity.RoleAdmin, time.Now()), nil).Code)
}

func TestSetSessionCookieAttributes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetSessionCookie(c, "tok", true)

	header := w.Header().Get("Set-Cookie")
	assert.Contains(t, header, "session_token=tok")
	assert.Contains(t, header, "HttpOnly")
	assert.Contains(t, header, "Secure")
	assert.Contains(t, header, "SameSite=Lax")
	assert.Contains(t, header, "Max-Age=2592000")
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(_ context.Context, token string) (*fbAuth.Token, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &fbAuth.Token{UID: "uid-1", Claims: map[string]interface{}{
		"email":          "fb@example.com",
		"name":           "파이어",
		"email_verified": true,
	}}, nil
}

func firebaseEngine(v IDTokenVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/t", RequireFirebaseAuth(v), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, id.Email)
	})
	return r
}

func TestRequireFirebaseAuth(t *testing.T) {
	assert.Equal(t, http.StatusServiceUnavailable, get(firebaseEngine(nil), nil, nil).Code)

	r := firebaseEngine(fakeVerifier{})
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, nil, map[string]string{"Authorization": "Bearer nope"}).Code)

	w := get(r, nil, map[string]string{"Authorization": "Bearer good"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fb@example.com", w.Body.String())
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(0.001, 2, quietLog())
	r := newEngine(rl.Handler())

	user := cookieFor(t, entity.RoleUser, time.Now())
	assert.Equal(t, http.StatusOK, get(r, user, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, user, nil).Code)
	w := get(r, user, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "TOO_MANY_REQUESTS"))

	// other users have their own bucket
	assert.Equal(t, http.StatusOK, get(r, cookieFor(t, entity.RoleUser, time.Now()), nil).Code)

	admin := cookieFor(t, entity.RoleAdmin, time.Now())
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, admin, nil).Code)
	}
}

func TestMetricsAndLoggerPassThrough(t *testing.T) {
	r := newEngine(Metrics(), RequestLogger(quietLog()))
	assert.Equal(t, http.StatusOK, get(r, nil, nil).Code)
}
