package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/smarttransit/ticketing-core/pkg/jwt"
)

// AgentContextKey is the key used to store the authenticated agent in Gin context
const AgentContextKey = "agent"

// AgentContext represents the authenticated ticket agent
type AgentContext struct {
	AgentID uuid.UUID `json:"agent_id"`
	Name    string    `json:"name"`
	Roles   []string  `json:"roles"`
}

func abortUnauthorized(c *gin.Context, errorCode, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   errorCode,
		"message": message,
		"code":    code,
	})
}

// AuthMiddleware validates the bearer token of the request
func AuthMiddleware(jwtService *jwt.Service, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		entry := logger.WithFields(logrus.Fields{
			"path": c.Request.URL.Path,
			"ip":   c.ClientIP(),
		})

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			entry.Warn("Auth failed: missing authorization header")
			abortUnauthorized(c, "unauthorized", "Authorization header is required", "MISSING_AUTH_HEADER")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			entry.Warn("Auth failed: invalid authorization format")
			abortUnauthorized(c, "unauthorized", "Invalid authorization header format. Expected: Bearer <token>", "INVALID_AUTH_FORMAT")
			return
		}

		claims, err := jwtService.ValidateAccessToken(strings.TrimSpace(parts[1]))
		if err != nil {
			entry.WithError(err).Warn("Auth failed: token rejected")
			if errors.Is(err, gojwt.ErrTokenExpired) {
				abortUnauthorized(c, "token_expired", "Access token has expired", "TOKEN_EXPIRED")
			} else {
				abortUnauthorized(c, "invalid_token", "Invalid access token", "INVALID_TOKEN")
			}
			return
		}

		c.Set(AgentContextKey, AgentContext{
			AgentID: claims.AgentID,
			Name:    claims.Name,
			Roles:   claims.Roles,
		})

		c.Next()
	}
}

// RequireRole allows the request when the agent holds any of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		agent, exists := GetAgentContext(c)
		if !exists {
			abortUnauthorized(c, "unauthorized", "Agent context not found. Auth middleware may not be applied.", "MISSING_AGENT_CONTEXT")
			return
		}

		for _, role := range roles {
			for _, held := range agent.Roles {
				if held == role {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":   "forbidden",
			"message": "You don't have permission to access this resource",
			"code":    "INSUFFICIENT_PERMISSIONS",
		})
	}
}

// GetAgentContext retrieves the authenticated agent from Gin context
func GetAgentContext(c *gin.Context) (AgentContext, bool) {
	value, exists := c.Get(AgentContextKey)
	if !exists {
		return AgentContext{}, false
	}

	agent, ok := value.(AgentContext)
	return agent, ok
}
