package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	jwtpkg "readmore/referral/pkg/jwt"
	"readmore/referral/pkg/response"
)

const ContextKeyUserClaims = "user_claims"

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// UserAuth requires a valid end-user token.
func UserAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			response.Unauthorized(c, "missing or malformed authorization header")
			c.Abort()
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserClaims, claims)
		c.Next()
	}
}

// OptionalUserAuth validates a token when one is presented but lets the
// request through anonymously otherwise. The public campaign listing uses
// it to add the caller's per-campaign status only when signed in.
func OptionalUserAuth(jwtManager *jwtpkg.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := jwtManager.Validate(token); err == nil {
				c.Set(ContextKeyUserClaims, claims)
			}
		}
		c.Next()
	}
}
