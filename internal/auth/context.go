package auth

import "github.com/gin-gonic/gin"

const principalKey = "principal"

// GetPrincipal returns the caller stored by the auth middlewares, or an
// anonymous principal.
func GetPrincipal(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}
