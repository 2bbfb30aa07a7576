package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"teamnet/internal/auth"
	"teamnet/internal/model"
)

const principalKey = "principal"

// requireAuth validates the bearer token and stores the caller's
// principal on the request context
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		claims, err := auth.ParseToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalKey, model.Principal{
			UID:   claims.UserUID,
			Email: claims.Email,
		})
		c.Next()
	}
}

// requireSuperuser gates destructive admin routes. The superuser flag
// lives on the user node, not in the token, so revoking it takes
// effect immediately.
func (s *Server) requireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		p := principalFrom(c)
		user, err := s.handlers.Users.GetByUID(c.Request.Context(), p.UID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown caller"})
			return
		}
		if !user.IsSuperuser {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "superuser required"})
			return
		}
		c.Next()
	}
}

// principalFrom returns the authenticated caller set by requireAuth
func principalFrom(c *gin.Context) model.Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(model.Principal); ok {
			return p
		}
	}
	return model.Principal{}
}
