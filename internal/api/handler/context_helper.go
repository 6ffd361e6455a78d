package handler

import (
	"github.com/gin-gonic/gin"

	"musclecrm/backend/pkg/jwt"
	"musclecrm/backend/pkg/response"
)

// MustGetDeviceClaims 从 Gin 上下文中安全提取设备 Token 声明。
// 如果认证中间件未正确注入，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetDeviceClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get("device_claims")
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
