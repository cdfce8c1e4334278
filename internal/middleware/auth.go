package middleware

import (
	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/service"
	"github.com/majwic/namilx-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileIDKey 是认证中间件写入请求上下文的键
const ProfileIDKey = "profile_id"

// AuthRequired 要求请求携带有效的会话 cookie，否则中断并返回未授权
func AuthRequired(authService service.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, err := authService.IdentifyRequired(c.Request)
		if err != nil {
			errors.HandleError(c, err)
			c.Abort()
			return
		}

		c.Set(ProfileIDKey, profileID)
		c.Next()
	}
}

// AuthOptional 尝试解析会话 cookie；解析失败不阻断请求，
// 只是不写入档案标识，处理器按匿名请求对待
func AuthOptional(authService service.AuthServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID, err := authService.IdentifyOptional(c.Request)
		if err != nil {
			util.Logger.Debug("会话凭证解析失败，按匿名处理", zap.Error(err))
		} else if profileID != 0 {
			c.Set(ProfileIDKey, profileID)
		}
		c.Next()
	}
}

// ProfileID 读取认证中间件写入的档案标识，匿名请求返回 0
func ProfileID(c *gin.Context) int64 {
	if v, ok := c.Get(ProfileIDKey); ok {
		if id, ok := v.(int64); ok {
			return id
		}
	}
	return 0
}
