package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/newswire/utils"
)

const (
	// ContextUserIDKey is the key used to store the authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextRoleKey stores the authenticated user's role inside Gin context.
	ContextRoleKey = "role"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, errMsg := claimsFromHeader(ctx)
		if claims == nil {
			utils.Error(ctx, http.StatusUnauthorized, errMsg)
			ctx.Abort()
			return
		}
		ctx.Set(ContextUserIDKey, claims.Subject)
		ctx.Set(ContextRoleKey, claims.Role)
		ctx.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid bearer token is present but
// never rejects the request. Public endpoints use it so read tracking can attribute
// reads to authenticated readers.
func OptionalAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, _ := claimsFromHeader(ctx); claims != nil {
			ctx.Set(ContextUserIDKey, claims.Subject)
			ctx.Set(ContextRoleKey, claims.Role)
		}
		ctx.Next()
	}
}

// RequireRole rejects authenticated callers whose role does not match. Must run after
// AuthRequired.
func RequireRole(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.GetString(ContextRoleKey) != role {
			utils.Error(ctx, http.StatusForbidden, "insufficient permissions")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated user id from context, empty for guests.
func UserID(ctx *gin.Context) string {
	return ctx.GetString(ContextUserIDKey)
}

func claimsFromHeader(ctx *gin.Context) (*utils.Claims, string) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		return nil, "authorization header missing"
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, "invalid authorization header format"
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return nil, "empty bearer token"
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		return nil, "invalid token"
	}
	return claims, ""
}
