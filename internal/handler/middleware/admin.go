package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwtpkg "readmore/referral/pkg/jwt"
	"readmore/referral/pkg/response"
)

// Admin permissions, one per backend campaign operation.
const (
	PermCampaignAdd    = "campaign_add"
	PermCampaignList   = "campaign_list"
	PermCampaignUpdate = "campaign_update"
	PermCampaignDelete = "campaign_delete"
	PermCampaignTop    = "campaign_top"
)

// AdminAuth checks that the authenticated token grants the named
// permission. Must be used after UserAuth.
func AdminAuth(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsVal, exists := c.Get(ContextKeyUserClaims)
		if !exists {
			response.Unauthorized(c, "missing authentication")
			c.Abort()
			return
		}
		claims, ok := claimsVal.(*jwtpkg.Claims)
		if !ok {
			response.Unauthorized(c, "invalid claims")
			c.Abort()
			return
		}

		if _, err := uuid.Parse(claims.Subject); err != nil {
			response.Unauthorized(c, "invalid user id")
			c.Abort()
			return
		}

		if !claims.HasPermission(permission) {
			response.Forbidden(c, "admin permission required: "+permission)
			c.Abort()
			return
		}

		c.Next()
	}
}
