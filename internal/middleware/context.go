package middleware

import "github.com/gin-gonic/gin"

// Request headers understood by the API.
const (
	HeaderCartToken      = "X-Cart-Token"
	HeaderIdempotencyKey = "Idempotency-Key"
)

// Context keys set by the middlewares.
const (
	ContextRequestID  = "request_id"
	ContextCartToken  = "cart_token"
	ContextCustomerID = "customer_id"
	ContextAdminID    = "admin_id"
	ContextEmail      = "email"
)

// CartToken returns the cart session token of the request.
func CartToken(c *gin.Context) string {
	return c.GetString(ContextCartToken)
}

// CustomerID returns the authenticated customer id, or 0 for anonymous
// shoppers.
func CustomerID(c *gin.Context) int {
	return c.GetInt(ContextCustomerID)
}
