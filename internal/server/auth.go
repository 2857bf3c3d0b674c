package server

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/storefront/internal/admintoken"
)

// AdminAuthRequired gates the admin API behind the bearer token whose
// Argon2id digest is configured at deploy time. With no digest
// configured the admin surface is disabled entirely.
func (s *Server) AdminAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		digest := strings.TrimSpace(s.cfg.AdminTokenHash)
		if digest == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		if !admintoken.Verify(strings.TrimSpace(token), digest) {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		c.Next()
	}
}
