package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
)

// SessionCookie is the name of the session cookie.
const SessionCookie = "session_token"

const sessionKey = "session"

// Session resolves the session cookie. A valid session is stored on the gin
// context and on the request context; an invalid or expired cookie is
// cleared and the request continues anonymously.
func Session(secret string, secure bool, log *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}
		s, err := authpkg.ParseSession(secret, token)
		if err != nil {
			log.WithError(err).Debug("dropping invalid session cookie")
			ClearSessionCookie(c, secure)
			c.Next()
			return
		}
		c.Set(sessionKey, s)
		c.Request = c.Request.WithContext(authpkg.WithSession(c.Request.Context(), s))
		c.Next()
	}
}

// SessionFrom returns the resolved session, or nil.
func SessionFrom(c *gin.Context) *authpkg.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*authpkg.Session); ok {
			return s
		}
	}
	return nil
}

// RequireSession aborts with 401 unless a session with an email is present.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Authenticated() {
			abortWith(c, apperror.Unauthorized("로그인이 필요합니다."))
			return
		}
		c.Next()
	}
}

// RequireRoles ensures the session has one of the allowed roles.
func RequireRoles(allowedRoles ...entity.Role) gin.HandlerFunc {
	roleSet := map[entity.Role]struct{}{}
	for _, r := range allowedRoles {
		roleSet[r] = struct{}{}
	}
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if !s.Authenticated() {
			abortWith(c, apperror.Unauthorized("로그인이 필요합니다."))
			return
		}
		if _, ok := roleSet[s.Role]; !ok {
			abortWith(c, apperror.Forbidden("접근 권한이 없습니다."))
			return
		}
		c.Next()
	}
}

// SetSessionCookie writes the session cookie for the full session lifetime.
func SetSessionCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, int(authpkg.SessionTTL.Seconds()), "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", secure, true)
}

func abortWith(c *gin.Context, e *apperror.Error) {
	c.AbortWithStatusJSON(e.HTTPStatus(), gin.H{"error": e})
}
