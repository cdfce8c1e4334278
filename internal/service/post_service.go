package service

import (
	"context"
	"fmt"
	"regexp"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

// MaxPageSize 是集合查询的页大小上限，调用方传入的值会被收敛到这里
const MaxPageSize = 20

// 排序字段原样传给存储层，但必须是标识符形状，
// ORDER BY 无法参数化，任意字符串直接拼接是注入口子
var sortFieldRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// PostView 是带观察者标注的帖子视图，IsLiked 为 nil 表示未表态或匿名
type PostView struct {
	Post    *model.Post
	IsLiked *bool
}

// PostServiceInterface 供处理器 mock 使用
type PostServiceInterface interface {
	Create(ctx context.Context, authorID int64, content string, tags []string) (*PostView, error)
	Get(ctx context.Context, postID, viewerID int64) (*PostView, error)
	ListByTag(ctx context.Context, tag, sortBy, sortDir string, page, size int, viewerID int64) ([]*PostView, error)
	React(ctx context.Context, postID, profileID int64, isLike *bool) (*PostView, error)
	Delete(ctx context.Context, requesterID, postID int64) error
}

// PostService 拥有帖子一侧的内容树：创建、检索、表态与删除
type PostService struct {
	postRepo    interfaces.PostRepository
	profileRepo interfaces.ProfileRepository
	ledger      ReactionLedgerInterface
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, profileRepo interfaces.ProfileRepository, ledger ReactionLedgerInterface) *PostService {
	return &PostService{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		ledger:      ledger,
	}
}

// Create 校验内容长度与标签数后写入新帖子
func (s *PostService) Create(ctx context.Context, authorID int64, content string, tags []string) (*PostView, error) {
	if len(content) > model.MaxContentLength {
		return nil, errors.Format("The 'content' field must less than 1000 characters")
	}
	if len(tags) > model.MaxTagCount {
		return nil, errors.Format("The 'tags' field cannot be a list of more than 3 items")
	}

	author, err := s.profileRepo.FindByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, errors.NotFound("Profile not found")
	}

	post := &model.Post{
		Content:  content,
		AuthorID: authorID,
	}
	if err := post.SetTags(tags); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	util.Logger.Info("帖子创建成功", zap.Int64("post_id", post.ID), zap.Int64("author_id", authorID))
	return s.buildView(ctx, post, authorID)
}

// Get 读取单条帖子，计数在读取时经由账本重新计算
func (s *PostService) Get(ctx context.Context, postID, viewerID int64) (*PostView, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.NotFound("Post not found")
	}
	return s.buildView(ctx, post, viewerID)
}

// ListByTag 按标签子串分页检索；空标签匹配全部帖子
func (s *PostService) ListByTag(ctx context.Context, tag, sortBy, sortDir string, page, size int, viewerID int64) ([]*PostView, error) {
	if !sortFieldRegex.MatchString(sortBy) {
		return nil, fmt.Errorf("invalid sort field: %q", sortBy)
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	posts, err := s.postRepo.FindByTag(ctx, tag, sortBy, sortDir, page, size)
	if err != nil {
		return nil, err
	}

	views := make([]*PostView, 0, len(posts))
	for _, post := range posts {
		view, err := s.buildView(ctx, post, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// React 写入、翻转或清除（isLike 为 nil）请求者对帖子的表态，
// 并用账本返回的最新计数刷新用于排序的冗余列
func (s *PostService) React(ctx context.Context, postID, profileID int64, isLike *bool) (*PostView, error) {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errors.NotFound("Post not found")
	}

	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("Profile not found")
	}

	likes, dislikes, err := s.ledger.SetReaction(ctx, model.TargetPost, postID, profileID, isLike)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.UpdateReactionCounts(ctx, postID, likes, dislikes); err != nil {
		return nil, err
	}
	post.Likes = likes
	post.Dislikes = dislikes

	isLiked, err := s.ledger.MyReaction(ctx, model.TargetPost, postID, profileID)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: post, IsLiked: isLiked}, nil
}

// Delete 只允许作者删除自己的帖子；
// 帖子自身的反应与帖子行在同一事务内清除，评论由存储层级联
func (s *PostService) Delete(ctx context.Context, requesterID, postID int64) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return errors.NotFound("Post not found")
	}

	if post.AuthorID != requesterID {
		return errors.Unauthorized("Post does not belong to profile.")
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}

	s.ledger.EvictTarget(model.TargetPost, postID)
	util.Logger.Info("帖子已删除", zap.Int64("post_id", postID))
	return nil
}

func (s *PostService) buildView(ctx context.Context, post *model.Post, viewerID int64) (*PostView, error) {
	likes, dislikes, err := s.ledger.Tally(ctx, model.TargetPost, post.ID)
	if err != nil {
		return nil, err
	}
	post.Likes = likes
	post.Dislikes = dislikes

	isLiked, err := s.ledger.MyReaction(ctx, model.TargetPost, post.ID, viewerID)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: post, IsLiked: isLiked}, nil
}
