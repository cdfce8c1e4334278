package interfaces

import (
	"context"

	"github.com/majwic/namilx-api/internal/model"
)

// PostRepository 定义了帖子相关的数据库操作接口
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id int64) (*model.Post, error)
	// FindByTag 在逗号连接的标签串上做子串匹配（空串匹配全部），
	// sortBy 原样交给存储层，分页参数由调用方先行收敛
	FindByTag(ctx context.Context, tag, sortBy, sortDir string, page, size int) ([]*model.Post, error)
	UpdateReactionCounts(ctx context.Context, id, likes, dislikes int64) error
	// Delete 在一个事务内清除帖子自身的反应并删除帖子，
	// 其下评论由存储层级联删除
	Delete(ctx context.Context, id int64) error
}

// CommentRepository 定义了评论相关的数据库操作接口
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	FindByID(ctx context.Context, id int64) (*model.Comment, error)
	// FindByPostAndParent 按点赞数降序分页；parentID 为 nil 时只返回顶层评论
	FindByPostAndParent(ctx context.Context, postID int64, parentID *int64, page, size int) ([]*model.Comment, error)
	UpdateReactionCounts(ctx context.Context, id, likes, dislikes int64) error
	// Delete 在一个事务内清除评论自身的反应并删除评论，回复级联删除
	Delete(ctx context.Context, id int64) error
}
