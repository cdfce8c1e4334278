package comment

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

// CommentHandler 处理评论相关的HTTP请求
type CommentHandler struct {
	commentService service.CommentServiceInterface
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(commentService service.CommentServiceInterface) *CommentHandler {
	return &CommentHandler{commentService}
}

// Create 处理发表评论请求，parentCommentId 可选，提供时必须是数字
func (h *CommentHandler) Create(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.Logger.Warn("评论失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Format("The request body must be a JSON object"))
		return
	}

	if err := util.RequireFields(body, map[string]string{
		"content": util.TypeString,
		"postId":  util.TypeNumber,
	}); err != nil {
		errors.HandleError(c, err)
		return
	}

	var parentCommentID *int64
	if raw, ok := body["parentCommentId"]; ok {
		num, ok := raw.(float64)
		if !ok {
			errors.HandleError(c, errors.Format("The 'parentCommentId' field must be a number if provided"))
			return
		}
		id := int64(num)
		parentCommentID = &id
	}

	postID := int64(body["postId"].(float64))
	view, err := h.commentService.Create(c.Request.Context(), middleware.ProfileID(c), postID, body["content"].(string), parentCommentID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeComment(c, view)
}

// Read 返回单条评论；携带有效 cookie 时附带请求者的表态
func (h *CommentHandler) Read(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	view, err := h.commentService.Get(c.Request.Context(), id, middleware.ProfileID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeComment(c, view)
}

// React 写入请求者对评论的表态，likeVal 参数缺失表示清除
func (h *CommentHandler) React(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	var isLike *bool
	if raw, ok := c.GetQuery("likeVal"); ok {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			errors.HandleError(c, errors.Format("The 'likeVal' parameter must be a boolean"))
			return
		}
		isLike = &parsed
	}

	view, err := h.commentService.React(c.Request.Context(), id, middleware.ProfileID(c), isLike)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	writeComment(c, view)
}

// ReadAllFromPost 分页返回某帖子下的评论，响应为 {"comments": [...]}；
// parentCommentId 缺失时只返回顶层评论
func (h *CommentHandler) ReadAllFromPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'postId' path parameter must be a number"))
		return
	}

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

	var parentCommentID *int64
	if raw, ok := c.GetQuery("parentCommentId"); ok {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errors.HandleError(c, errors.Format("The 'parentCommentId' parameter must be a number"))
			return
		}
		parentCommentID = &parsed
	}

	views, err := h.commentService.List(c.Request.Context(), postID, parentCommentID, page, size, middleware.ProfileID(c))
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	docs := make([]*jsondoc.Document, 0, len(views))
	for _, view := range views {
		docs = append(docs, commentDoc(view))
	}
	body := jsondoc.New().Add("comments", docs)
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(body.Render()))
}

// Delete 删除评论，仅限作者
func (h *CommentHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Format("The 'id' path parameter must be a number"))
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), middleware.ProfileID(c), id); err != nil {
		errors.HandleError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// commentDoc 组装评论响应，字段顺序固定；
// parentCommentId 仅在评论是回复时出现，isLiked 仅在请求者有表态时出现
func commentDoc(view *service.CommentView) *jsondoc.Document {
	doc := jsondoc.New().
		Add("id", view.Comment.ID).
		Add("content", view.Comment.Content).
		Add("likes", view.Comment.Likes).
		Add("dislikes", view.Comment.Dislikes).
		Add("postId", view.Comment.PostID).
		Add("authorId", view.Comment.AuthorID)

	if view.Comment.ParentCommentID != nil {
		doc.Add("parentCommentId", *view.Comment.ParentCommentID)
	}
	if view.IsLiked != nil {
		doc.Add("isLiked", *view.IsLiked)
	}
	return doc
}

func writeComment(c *gin.Context, view *service.CommentView) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(commentDoc(view).Render()))
}
