package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"readmore/referral/internal/handler/middleware"
	jwtpkg "readmore/referral/pkg/jwt"
)

var ErrNoClaims = errors.New("claims not found in context")

func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	claimsVal, exists := c.Get(middleware.ContextKeyUserClaims)
	if !exists {
		return uuid.Nil, ErrNoClaims
	}
	claims, ok := claimsVal.(*jwtpkg.Claims)
	if !ok {
		return uuid.Nil, ErrNoClaims
	}
	return uuid.Parse(claims.Subject)
}

// optionalUserID returns the authenticated user's ID or nil when the
// request is anonymous.
func optionalUserID(c *gin.Context) *uuid.UUID {
	id, err := getUserIDFromContext(c)
	if err != nil {
		return nil
	}
	return &id
}

// parsePagination applies the listing defaults: page >= 1 else 1,
// limit >= 1 else 10.
func parsePagination(c *gin.Context) (page, limit int) {
	page = 1
	limit = 10
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 1 {
		page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v >= 1 {
		limit = v
	}
	return page, limit
}
