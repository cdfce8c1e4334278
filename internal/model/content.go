package model

import (
	"strings"

	"github.com/majwic/namilx-api/internal/errors"
)

// MaxContentLength 是帖子与评论内容的最大长度
const MaxContentLength = 1000

// MaxTagCount 是单个帖子允许的标签数量上限
const MaxTagCount = 3

// Post 代表一条帖子。Likes/Dislikes 是反范式化的冗余副本，
// 只用于排序，真实计数始终由反应账本重新计算。
type Post struct {
	ID       int64
	Content  string
	Likes    int64
	Dislikes int64
	Tags     string // 逗号连接存储，对外暴露为列表
	AuthorID int64
}

// SetTags 把标签列表合并为逗号连接的内部形式
func (p *Post) SetTags(tags []string) error {
	if tags == nil {
		p.Tags = ""
		return nil
	}
	if len(tags) > MaxTagCount {
		return errors.Format("A post can have a maximum of 3 tags")
	}
	p.Tags = strings.Join(tags, ",")
	return nil
}

// TagList 还原标签列表，保持原始顺序
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return []string{}
	}
	return strings.Split(p.Tags, ",")
}

// Comment 代表一条评论。ParentCommentID 为 nil 表示顶层评论。
type Comment struct {
	ID              int64
	Content         string
	Likes           int64
	Dislikes        int64
	PostID          int64
	ParentCommentID *int64
	AuthorID        int64
}
