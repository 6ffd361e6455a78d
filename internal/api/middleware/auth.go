package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"musclecrm/backend/pkg/jwt"
	"musclecrm/backend/pkg/redis"
	"musclecrm/backend/pkg/response"
)

// DeviceAuth 签到设备认证中间件
// 从 Authorization: Bearer <token> 中提取并验证设备 Token；
// rdb 非 nil 时额外检查黑名单，rdb 为 nil 时降级跳过（与限流策略一致）
func DeviceAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "Token 已吊销")
				c.Abort()
				return
			}
			// Redis 出错时降级放行，Token 签名校验已通过
		}

		// 将设备信息注入上下文
		c.Set("device_claims", claims)
		c.Set("device_id", claims.DeviceID)
		c.Set("device_kind", claims.DeviceKind)

		c.Next()
	}
}
