package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
	"github.com/dlfdnd96/kidari-teacher-sub001/database"
	"github.com/dlfdnd96/kidari-teacher-sub001/entity"
	"github.com/dlfdnd96/kidari-teacher-sub001/middleware"
	"github.com/dlfdnd96/kidari-teacher-sub001/user"
)

// TestHandler serves the end-to-end helpers. Every route answers 404 unless
// enabled is set.
type TestHandler struct {
	enabled      bool
	auth         authpkg.Service
	purger       user.Purger
	tx           database.Transactor
	secureCookie bool
	log          *logrus.Entry
}

func NewTestHandler(enabled bool, auth authpkg.Service, purger user.Purger, tx database.Transactor, secureCookie bool, log *logrus.Entry) *TestHandler {
	return &TestHandler{
		enabled:      enabled,
		auth:         auth,
		purger:       purger,
		tx:           tx,
		secureCookie: secureCookie,
		log:          log.WithField("component", "test-endpoints"),
	}
}

type testLoginPayload struct {
	Role entity.Role `json:"role" binding:"required,oneof=USER ADMIN"`
}

// Login handles POST /api/test/login.
func (h *TestHandler) Login() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.enabled {
			notFound(c)
			return
		}
		var p testLoginPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			badPayload(c, err)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		principal, err := h.auth.TestSignIn(ctx, p.Role)
		if err != nil {
			writeError(c, err)
			return
		}
		middleware.SetSessionCookie(c, principal.Token, h.secureCookie)
		c.JSON(http.StatusOK, gin.H{"session": principal.Session})
	}
}

// Cleanup handles POST /api/test/cleanup.
func (h *TestHandler) Cleanup() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !h.enabled {
			notFound(c)
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		var removed int64
		if err := h.tx.WithTx(ctx, func(ctx context.Context) error {
			var err error
			removed, err = h.purger.PurgeTestAccounts(ctx)
			return err
		}); err != nil {
			writeError(c, err)
			return
		}
		h.log.WithField("users", removed).Info("purged test accounts")
		c.JSON(http.StatusOK, gin.H{"success": true, "deletedUsers": removed})
	}
}
