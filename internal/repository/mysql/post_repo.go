package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO posts (content, likes, dislikes, tags, profile_id) VALUES (?, 0, 0, ?, ?)`,
		post.Content, post.Tags, post.AuthorID)
	if err != nil {
		util.Logger.Error("创建帖子失败", zap.Error(err))
		return err
	}

	postID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = postID
	return nil
}

func (r *postRepository) FindByID(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.QueryRowContext(ctx,
		`SELECT id, content, likes, dislikes, tags, profile_id FROM posts WHERE id = ?`, id).Scan(
		&post.ID, &post.Content, &post.Likes, &post.Dislikes, &post.Tags, &post.AuthorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByTag(ctx context.Context, tag, sortBy, sortDir string, page, size int) ([]*model.Post, error) {
	// ORDER BY 无法参数化，排序字段原样拼入；
	// 调用方只保证它是标识符形状，未知列名由这里的查询错误原样上浮
	dir := "DESC"
	if strings.EqualFold(sortDir, "ASC") {
		dir = "ASC"
	}
	query := fmt.Sprintf(`
        SELECT id, content, likes, dislikes, tags, profile_id
        FROM posts
        WHERE tags LIKE ?
        ORDER BY %s %s
        LIMIT ? OFFSET ?`, sortBy, dir)

	rows, err := r.db.QueryContext(ctx, query, "%"+tag+"%", size, page*size)
	if err != nil {
		util.Logger.Error("按标签查询帖子失败", zap.Error(err), zap.String("tag", tag))
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.Content, &post.Likes, &post.Dislikes, &post.Tags, &post.AuthorID); err != nil {
			return nil, err
		}
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func (r *postRepository) UpdateReactionCounts(ctx context.Context, id, likes, dislikes int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE posts SET likes = ?, dislikes = ? WHERE id = ?`, likes, dislikes, id)
	if err != nil {
		util.Logger.Error("更新帖子计数失败", zap.Error(err), zap.Int64("post_id", id))
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 反应没有级联约束，必须先显式清除
	_, err = tx.ExecContext(ctx,
		`DELETE FROM reactions WHERE target_kind = ? AND target_id = ?`, model.TargetPost, id)
	if err != nil {
		util.Logger.Error("清除帖子反应失败", zap.Error(err), zap.Int64("post_id", id))
		return err
	}

	// 评论由外键级联删除
	_, err = tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除帖子失败", zap.Error(err), zap.Int64("post_id", id))
		return err
	}

	return tx.Commit()
}
