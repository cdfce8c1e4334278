package profile

import (
	"net/http"
	"strconv"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/jsondoc"
	"github.com/majwic/namilx-api/internal/middleware"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/service"
	"github.com/majwic/namilx-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 可选更新字段，按原有顺序逐个处理
var updatableFields = []string{"displayName", "email", "newPassword"}

// ProfileHandler 处理档案相关的HTTP请求
type ProfileHandler struct {
	profileService service.ProfileServiceInterface
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(profileService service.ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{profileService}
}

// Create 处理档案注册请求，成功时返回带凭证视图的档案
func (h *ProfileHandler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.Logger.Warn("注册失败，无效的请求数据", zap.Error(err))
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

	profile, err := h.profileService.Create(c.Request.Context(), body["email"].(string), body["password"].(string))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	writeProfile(c, profile, true)
}

// ReadByCookie 返回当前会话档案的凭证视图
func (h *ProfileHandler) ReadByCookie(c *gin.Context) {
	profile, err := h.profileService.Read(c.Request.Context(), middleware.ProfileID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeProfile(c, profile, true)
}

// ReadByID 返回任意档案的公开视图
func (h *ProfileHandler) ReadByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	profile, err := h.profileService.Read(c.Request.Context(), id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeProfile(c, profile, false)
}

// Update 处理档案自助更新；必须携带 currentPassword，
// 可选字段存在但不是字符串时按格式错误拒绝
func (h *ProfileHandler) Update(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		errors.HandleError(c, errors.Format("The request body must be a JSON object"))
		return
	}

	if err := util.RequireFields(body, map[string]string{
		"currentPassword": util.TypeString,
	}); err != nil {
		errors.HandleError(c, err)
		return
	}

	req := &service.UpdateProfileRequest{
		CurrentPassword: body["currentPassword"].(string),
	}
	for _, field := range updatableFields {
		value, ok := body[field]
		if !ok {
			continue
		}
		str, ok := value.(string)
		if !ok {
			errors.HandleError(c, errors.Format("The '"+field+"' field must be a string"))
			return
		}
		switch field {
		case "displayName":
			req.DisplayName = &str
		case "email":
			req.Email = &str
		case "newPassword":
			req.NewPassword = &str
		}
	}

	profile, err := h.profileService.Update(c.Request.Context(), middleware.ProfileID(c), req)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeProfile(c, profile, true)
}

// Delete 删除当前会话的档案，密码通过查询参数再次确认
func (h *ProfileHandler) Delete(c *gin.Context) {
	password, ok := c.GetQuery("password")
	if !ok {
		errors.HandleError(c, errors.Format("The 'password' parameter is required"))
		return
	}

	if err := h.profileService.Delete(c.Request.Context(), middleware.ProfileID(c), password); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// profileDoc 组装档案响应，hasCred 决定是否附带邮箱和角色
func profileDoc(profile *model.Profile, hasCred bool) *jsondoc.Document {
	doc := jsondoc.New().
		Add("id", profile.ID).
		Add("displayName", profile.DisplayName)

	if hasCred {
		roles := make([]*jsondoc.Document, 0, len(profile.Roles))
		for _, role := range profile.Roles {
			roles = append(roles, jsondoc.New().
				Add("id", role.ID).
				Add("name", role.Name))
		}
		doc.Add("email", profile.Email).
			Add("roles", roles)
	}
	return doc
}

func writeProfile(c *gin.Context, profile *model.Profile, hasCred bool) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(profileDoc(profile, hasCred).Render()))
}
