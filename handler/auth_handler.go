package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/middleware"
)

type AuthHandler struct {
	service      authpkg.Service
	secureCookie bool
}

func NewAuthHandler(svc authpkg.Service, secureCookie bool) *AuthHandler {
	return &AuthHandler{service: svc, secureCookie: secureCookie}
}

// FirebaseSignIn exchanges a verified Firebase identity for a session cookie.
// middleware.RequireFirebaseAuth must run before it.
func (h *AuthHandler) FirebaseSignIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := middleware.IdentityFrom(c)
		if !ok {
			writeError(c, apperror.Unauthorized("로그인 토큰이 없습니다."))
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		principal, err := h.service.SignIn(ctx, id)
		if err != nil {
			writeError(c, err)
			return
		}
		middleware.SetSessionCookie(c, principal.Token, h.secureCookie)
		c.JSON(http.StatusOK, gin.H{"session": principal.Session})
	}
}

// CurrentSession returns the decoded session, or null when signed out.
func (h *AuthHandler) CurrentSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := middleware.SessionFrom(c)
		if !s.Authenticated() {
			c.JSON(http.StatusOK, gin.H{"session": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"session": s})
	}
}

func (h *AuthHandler) SignOut() gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.ClearSessionCookie(c, h.secureCookie)
		c.JSON(http.StatusOK, done{Success: true})
	}
}
