package middleware

import (
	"context"
	"net/http"
	"strings"

	fbAuth "firebase.google.com/go/auth"
	"github.com/gin-gonic/gin"

	"github.com/dlfdnd96/kidari-teacher-sub001/apperror"
	authpkg "github.com/dlfdnd96/kidari-teacher-sub001/auth"
)

// IDTokenVerifier is satisfied by *fbAuth.Client.
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbAuth.Token, error)
}

const identityKey = "firebase_identity"

// RequireFirebaseAuth validates a Firebase ID token (Bearer) and stores the
// verified identity in the context. A nil verifier answers 503.
//
// Typical usage:
//
//	mw.RequireFirebaseAuth(firebaseAuthClient)
func RequireFirebaseAuth(verifier IDTokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if verifier == nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "소셜 로그인이 설정되지 않았습니다.",
			}})
			return
		}

		idToken, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || idToken == "" {
			abortWith(c, apperror.Unauthorized("로그인 토큰이 없습니다."))
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), idToken)
		if err != nil {
			abortWith(c, apperror.Unauthorized("로그인 토큰이 만료되었거나 올바르지 않습니다."))
			return
		}

		c.Set(identityKey, authpkg.IdentityFromToken(token))
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireFirebaseAuth.
func IdentityFrom(c *gin.Context) (authpkg.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return authpkg.Identity{}, false
	}
	id, ok := v.(authpkg.Identity)
	return id, ok
}
