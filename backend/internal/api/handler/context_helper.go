package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"peopledesk/backend/internal/api/middleware"
	"peopledesk/backend/pkg/jwt"
	"peopledesk/backend/pkg/response"
)

// MustGetUserID 读取 JWT 中间件注入的 user_id
// 缺失时写入 401 并返回 false，调用方应直接返回
func MustGetUserID(c *gin.Context) (string, bool) {
	s := c.GetString(middleware.ContextKeyUserID)
	if s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetClaims 读取已解析的 access token 声明
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(middleware.ContextKeyClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// parseEmployeeID 将路径参数 :id 解析为员工编号
func parseEmployeeID(c *gin.Context) (int32, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil || id < 1 {
		response.BadRequest(c, 10001, "员工编号无效")
		return 0, false
	}
	return int32(id), true
}

// bindJSON 绑定请求体，失败时写入 400（请求体过大时 413）
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return false
		}
		response.BadRequest(c, 10001, validationDetail(err))
		return false
	}
	return true
}
