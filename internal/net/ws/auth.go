package ws

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
)

const claimsKey = "claims"

// Claims is the authenticated identity attached to a connection.
type Claims struct {
	ID       string
	Username string
}

// JwtAuthMiddleware verifies the bearer token and stashes its claims in the
// gin context. Browser websocket clients cannot set headers, so the token may
// also arrive as a query parameter.
func JwtAuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
			}
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		mapClaims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			return
		}
		c.Set(claimsKey, mapClaims)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// getClaims pulls the structured identity back out of the gin context.
func getClaims(c *gin.Context) (Claims, error) {
	claimsValue, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, fmt.Errorf("no claims in context")
	}
	mapClaims, ok := claimsValue.(jwt.MapClaims)
	if !ok {
		return Claims{}, fmt.Errorf("unexpected claims type %T", claimsValue)
	}

	claims := Claims{}
	if id, ok := mapClaims["id"].(string); ok {
		claims.ID = id
	}
	if username, ok := mapClaims["username"].(string); ok {
		claims.Username = username
	}
	if claims.ID == "" {
		return Claims{}, fmt.Errorf("token carries no identity")
	}
	if claims.Username == "" {
		claims.Username = claims.ID
	}
	return claims, nil
}
