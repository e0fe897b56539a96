package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// JWTMiddleware verifies bearer tokens issued by the store backend. Tokens
// are only verified here; login lives elsewhere.
type JWTMiddleware struct {
	limiter *InvalidAuthRateLimiter
}

// NewJWTMiddleware creates a JWTMiddleware. limiter may be nil.
func NewJWTMiddleware(limiter *InvalidAuthRateLimiter) *JWTMiddleware {
	return &JWTMiddleware{limiter: limiter}
}

// Admin requires a valid admin token.
func (m *JWTMiddleware) Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.reject(c, "UNAUTHORIZED", "Missing authorization header")
			return
		}

		claims, ok := bearerClaims(authHeader)
		if !ok {
			m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		if claims.Role != utils.RoleAdmin {
			utils.Error(c, 403, "FORBIDDEN", "Admin role required")
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalCustomer attaches the customer of a valid token to the request.
// Requests without a token continue as anonymous shoppers; a token that
// does not verify is rejected so a shopper never silently loses their
// account on an order.
func (m *JWTMiddleware) OptionalCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, ok := bearerClaims(authHeader)
		if !ok {
			m.reject(c, "INVALID_TOKEN", "Invalid or expired token")
			return
		}
		if claims.Role == utils.RoleCustomer {
			c.Set(ContextCustomerID, claims.UserID)
			c.Set(ContextEmail, claims.Email)
		}
		c.Next()
	}
}

func (m *JWTMiddleware) reject(c *gin.Context, code, message string) {
	if m.limiter != nil && !m.limiter.Allow(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		c.Abort()
		return
	}
	utils.Error(c, 401, code, message)
	c.Abort()
}

func bearerClaims(header string) (*utils.Claims, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}
	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
