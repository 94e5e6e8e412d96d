package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomhub/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// 预订类接口的请求体都很小，超限一律按 413 拒绝
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, ginErr := range c.Errors {
			var mbe *http.MaxBytesError
			if errors.As(ginErr.Err, &mbe) {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
				return
			}
		}
	}
}
