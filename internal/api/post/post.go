package post

import (
	"net/http"
	"strconv"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/jsondoc"
	"github.com/majwic/namilx-api/internal/middleware"
	"github.com/majwic/namilx-api/internal/service"
	"github.com/majwic/namilx-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PostHandler 处理帖子相关的HTTP请求
type PostHandler struct {
	postService service.PostServiceInterface
}

// NewPostHandler 创建一个新的 PostHandler 实例
func NewPostHandler(postService service.PostServiceInterface) *PostHandler {
	return &PostHandler{postService}
}

// Create 处理发帖请求，tags 必须是字符串列表
func (h *PostHandler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.Logger.Warn("发帖失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Format("The request body must be a JSON object"))
		return
	}

	if err := util.RequireFields(body, map[string]string{
		"content": util.TypeString,
		"tags":    util.TypeList,
	}); err != nil {
		errors.HandleError(c, err)
		return
	}

	rawTags := body["tags"].([]interface{})
	tags := make([]string, 0, len(rawTags))
	for _, raw := range rawTags {
		tag, ok := raw.(string)
		if !ok {
			errors.HandleError(c, errors.Format("The 'tags' field must be a list of strings"))
			return
		}
		tags = append(tags, tag)
	}

	view, err := h.postService.Create(c.Request.Context(), middleware.ProfileID(c), body["content"].(string), tags)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writePost(c, view)
}

// Read 返回单条帖子；携带有效 cookie 时附带请求者的表态
func (h *PostHandler) Read(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	view, err := h.postService.Get(c.Request.Context(), id, middleware.ProfileID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writePost(c, view)
}

// React 写入请求者对帖子的表态，isLiked 参数缺失表示清除
func (h *PostHandler) React(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	var isLike *bool
	if raw, ok := c.GetQuery("isLiked"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errors.HandleError(c, errors.Format("The 'isLiked' parameter must be a boolean"))
			return
		}
		isLike = &parsed
	}

	view, err := h.postService.React(c.Request.Context(), id, middleware.ProfileID(c), isLike)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writePost(c, view)
}

// ReadAllByTag 按标签分页检索帖子，响应为 {"posts": [...]}
func (h *PostHandler) ReadAllByTag(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		errors.HandleError(c, errors.Format("The 'page' parameter must be a number"))
		return
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil {
		errors.HandleError(c, errors.Format("The 'size' parameter must be a number"))
		return
	}

	tag := c.Query("tag")
	sortBy := c.DefaultQuery("sortBy", "likes")
	sortDir := c.DefaultQuery("sortDir", "desc")

	views, err := h.postService.ListByTag(c.Request.Context(), tag, sortBy, sortDir, page, size, middleware.ProfileID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	docs := make([]*jsondoc.Document, 0, len(views))
	for _, view := range views {
		docs = append(docs, postDoc(view))
	}
	body := jsondoc.New().Add("posts", docs)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body.Render()))
}

// Delete 删除帖子，仅限作者
func (h *PostHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	if err := h.postService.Delete(c.Request.Context(), middleware.ProfileID(c), id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// postDoc 组装帖子响应，字段顺序固定；isLiked 仅在请求者有表态时出现
func postDoc(view *service.PostView) *jsondoc.Document {
	doc := jsondoc.New().
		Add("id", view.Post.ID).
		Add("content", view.Post.Content).
		Add("likes", view.Post.Likes).
		Add("dislikes", view.Post.Dislikes).
		Add("tags", view.Post.TagList()).
		Add("authorId", view.Post.AuthorID)

	if view.IsLiked != nil {
		doc.Add("isLiked", *view.IsLiked)
	}
	return doc
}

func writePost(c *gin.Context, view *service.PostView) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(postDoc(view).Render()))
}
