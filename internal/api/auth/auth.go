package auth

import (
	"net/http"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/middleware"
	"github.com/majwic/namilx-api/internal/service"
	"github.com/majwic/namilx-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 会话 cookie 的存活秒数，与令牌的 8 小时有效期一致
const sessionCookieMaxAge = 28800

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	authService service.AuthServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(authService service.AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authService}
}

// Validate 校验当前会话：cookie 有效且档案仍然存在时返回 200 空响应
func (h *AuthHandler) Validate(c *gin.Context) {
	profileID := middleware.ProfileID(c)

	if err := h.authService.AssertProfileExists(c.Request.Context(), profileID); err != nil {
		errors.HandleError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// SignIn 校验登录凭证，签发会话令牌并写入 cookie
func (h *AuthHandler) SignIn(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.Logger.Warn("登录失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Format("The request body must be a JSON object"))
		return
	}

	if err := util.RequireFields(body, map[string]string{
		"email":    util.TypeString,
		"password": util.TypeString,
	}); err != nil {
		errors.HandleError(c, err)
		return
	}

	token, err := h.authService.SignIn(c.Request.Context(), body["email"].(string), body["password"].(string))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	c.SetCookie(service.SessionCookieName, token, sessionCookieMaxAge, "/", "", true, true)
	c.Status(http.StatusOK)
}

// SignOut 用一个立即过期的同名 cookie 覆盖会话 cookie
func (h *AuthHandler) SignOut(c *gin.Context) {
	c.SetCookie(service.SessionCookieName, "", -1, "/", "", true, true)
	c.Status(http.StatusOK)
}
