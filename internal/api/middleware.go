package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Context keys set by AuthRequired
const (
	ctxUserID   = "user_id"
	ctxUserName = "user_name"
	ctxUserRole = "user_role"
)

// Identity is the authenticated caller, as read from the token. Token
// issuance belongs to the external auth provider; this service only reads.
type Identity struct {
	UserID int64
	Name   string
	Role   string
}

// AuthRequired parses the Bearer token and stores the caller's identity on
// the request context.
func AuthRequired(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing auth token"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}

		sub, ok := claims["sub"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid subject"})
			return
		}

		c.Set(ctxUserID, int64(sub))
		if name, ok := claims["name"].(string); ok {
			c.Set(ctxUserName, name)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set(ctxUserRole, role)
		}
		c.Next()
	}
}

// RoleRequired gates a route group to the given roles
func RoleRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ctxUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}

// AdminOnly is shorthand for the admin-gated route groups
func AdminOnly() gin.HandlerFunc {
	return RoleRequired(models.RoleAdmin)
}

func identityFrom(c *gin.Context) Identity {
	return Identity{
		UserID: c.GetInt64(ctxUserID),
		Name:   c.GetString(ctxUserName),
		Role:   c.GetString(ctxUserRole),
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
