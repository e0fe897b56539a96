package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/utils"
)

// CartSessionMiddleware binds the request to a cart session. A missing or
// malformed X-Cart-Token gets a fresh token, which is echoed back in the
// response header so the storefront can keep it.
func CartSessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderCartToken)
		if !utils.ValidCartToken(token) {
			fresh, err := utils.GenerateCartToken()
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate cart token")
				utils.Error(c, 500, "INTERNAL_ERROR", "Failed to start cart session")
				c.Abort()
				return
			}
			token = fresh
		}

		c.Set(ContextCartToken, token)
		c.Header(HeaderCartToken, token)
		c.Next()
	}
}
