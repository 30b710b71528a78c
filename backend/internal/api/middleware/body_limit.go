package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/pkg/response"
)

// BodyLimit 全局请求体大小限制中间件
// Content-Length 超限的请求直接拒绝，其余在读取时失败
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()
	}
}
