package service

import (
	"context"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

// CommentView 是带观察者标注的评论视图
type CommentView struct {
	Comment *model.Comment
	IsLiked *bool
}

// CommentServiceInterface 供处理器 mock 使用
type CommentServiceInterface interface {
	Create(ctx context.Context, authorID, postID int64, content string, parentCommentID *int64) (*CommentView, error)
	Get(ctx context.Context, commentID, viewerID int64) (*CommentView, error)
	List(ctx context.Context, postID int64, parentCommentID *int64, page, size int, viewerID int64) ([]*CommentView, error)
	React(ctx context.Context, commentID, profileID int64, isLike *bool) (*CommentView, error)
	Delete(ctx context.Context, requesterID, commentID int64) error
}

// CommentService 拥有评论一侧的内容树，评论可嵌套为回复
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
	profileRepo interfaces.ProfileRepository
	ledger      ReactionLedgerInterface
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(
	commentRepo interfaces.CommentRepository,
	postRepo interfaces.PostRepository,
	profileRepo interfaces.ProfileRepository,
	ledger ReactionLedgerInterface,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		profileRepo: profileRepo,
		ledger:      ledger,
	}
}

// Create 写入新评论。父评论只做存在性解析，
// 不校验它是否挂在同一条帖子下——这是沿用下来的宽松行为。
func (s *CommentService) Create(ctx context.Context, authorID, postID int64, content string, parentCommentID *int64) (*CommentView, error) {
	if len(content) > model.MaxContentLength {
		return nil, errors.Format("The 'content' field must less than 1000 characters")
	}

	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.NotFound("Post not found")
	}

	author, err := s.profileRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.NotFound("Profile not found")
	}

	if parentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *parentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, errors.NotFound("Comment not found")
		}
	}

	comment := &model.Comment{
		Content:         content,
		PostID:          postID,
		ParentCommentID: parentCommentID,
		AuthorID:        authorID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	util.Logger.Info("评论创建成功", zap.Int64("comment_id", comment.ID), zap.Int64("post_id", postID))
	return s.buildView(ctx, comment, authorID)
}

func (s *CommentService) Get(ctx context.Context, commentID, viewerID int64) (*CommentView, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errors.NotFound("Comment not found")
	}
	return s.buildView(ctx, comment, viewerID)
}

// List 分页返回某帖子下的评论；parentCommentID 为 nil 时只返回顶层，
// 排序固定为点赞数降序
func (s *CommentService) List(ctx context.Context, postID int64, parentCommentID *int64, page, size int, viewerID int64) ([]*CommentView, error) {
	if size > MaxPageSize {
		size = MaxPageSize
	}

	comments, err := s.commentRepo.FindByPostAndParent(ctx, postID, parentCommentID, page, size)
	if err != nil {
		return nil, err
	}

	views := make([]*CommentView, 0, len(comments))
	for _, comment := range comments {
		view, err := s.buildView(ctx, comment, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// React 写入、翻转或清除请求者对评论的表态
func (s *CommentService) React(ctx context.Context, commentID, profileID int64, isLike *bool) (*CommentView, error) {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, errors.NotFound("Comment not found")
	}

	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("Profile not found")
	}

	likes, dislikes, err := s.ledger.SetReaction(ctx, model.TargetComment, commentID, profileID, isLike)
	if err != nil {
		return nil, err
	}

	if err := s.commentRepo.UpdateReactionCounts(ctx, commentID, likes, dislikes); err != nil {
		return nil, err
	}
	comment.Likes = likes
	comment.Dislikes = dislikes

	isLiked, err := s.ledger.MyReaction(ctx, model.TargetComment, commentID, profileID)
	if err != nil {
		return nil, err
	}
	return &CommentView{Comment: comment, IsLiked: isLiked}, nil
}

// Delete 只允许作者删除自己的评论；回复由存储层级联删除
func (s *CommentService) Delete(ctx context.Context, requesterID, commentID int64) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return errors.NotFound("Comment not found")
	}

	if comment.AuthorID != requesterID {
		return errors.Unauthorized("Comment does not belong to profile.")
	}

	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return err
	}

	s.ledger.EvictTarget(model.TargetComment, commentID)
	util.Logger.Info("评论已删除", zap.Int64("comment_id", commentID))
	return nil
}

func (s *CommentService) buildView(ctx context.Context, comment *model.Comment, viewerID int64) (*CommentView, error) {
	likes, dislikes, err := s.ledger.Tally(ctx, model.TargetComment, comment.ID)
	if err != nil {
		return nil, err
	}
	comment.Likes = likes
	comment.Dislikes = dislikes

	isLiked, err := s.ledger.MyReaction(ctx, model.TargetComment, comment.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &CommentView{Comment: comment, IsLiked: isLiked}, nil
}
