package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/medconnect-api/internal/apperror"
	"github.com/harentsoaR/medconnect-api/internal/models"
	"github.com/harentsoaR/medconnect-api/internal/utils"
)

const sessionKey = "session"

// TokenVerifier is satisfied by *utils.TokenIssuer.
type TokenVerifier interface {
	ValidateJWT(tokenStr string) (*utils.Claims, error)
}

// RequireSession rejects requests without a valid Bearer token. When roles
// are given, the token's role must be one of them.
func RequireSession(verifier TokenVerifier, roles ...models.Variant) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, apperror.Unauthorized("Authorization header required"))
			return
		}

		claims, err := verifier.ValidateJWT(authHeader)
		if err != nil {
			abort(c, apperror.Unauthorized("Invalid token"))
			return
		}

		if len(roles) > 0 && !hasRole(claims.Role, roles) {
			abort(c, apperror.Forbidden("This action is not allowed for your account"))
			return
		}

		c.Set(sessionKey, claims)
		c.Next()
	}
}

// Session returns the claims stored by RequireSession.
func Session(c *gin.Context) (*utils.Claims, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*utils.Claims)
	return claims, ok
}

func hasRole(role string, allowed []models.Variant) bool {
	for _, r := range allowed {
		if string(r) == role {
			return true
		}
	}
	return false
}

func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
