package auth

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	initDataHeader  = "X-Telegram-Init-Data"
	devUserIDHeader = "X-Dev-User-Id"

	userIDKey   = "auth_user_id"
	userNameKey = "auth_user_name"
)

// Middleware authenticates API requests from the Telegram WebApp. With
// devSkip set, the signature check is bypassed and X-Dev-User-Id may
// impersonate any user.
func Middleware(v *Validator, devSkip bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if devSkip {
			if devID := c.GetHeader(devUserIDHeader); devID != "" {
				id, err := strconv.ParseInt(devID, 10, 64)
				if err != nil {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "bad X-Dev-User-Id"})
					return
				}
				c.Set(userIDKey, id)
				c.Set(userNameKey, "dev:"+devID)
				c.Next()
				return
			}
		}

		id, name, err := v.Validate(c.GetHeader(initDataHeader))
		if err != nil {
			log.Warn().Err(err).Str("path", c.FullPath()).Msg("initData validation failed")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(userIDKey, id)
		c.Set(userNameKey, name)
		c.Next()
	}
}

// UserID returns the authenticated Telegram user id set by Middleware.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

// UserName returns the authenticated display name, possibly empty.
func UserName(c *gin.Context) string {
	return c.GetString(userNameKey)
}
