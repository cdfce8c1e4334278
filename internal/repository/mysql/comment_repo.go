package mysql

import (
	"context"
	"database/sql"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

type commentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO comments (content, likes, dislikes, post_id, parent_comment_id, profile_id)
         VALUES (?, 0, 0, ?, ?, ?)`,
		comment.Content, comment.PostID, comment.ParentCommentID, comment.AuthorID)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err))
		return err
	}

	commentID, err := result.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = commentID
	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.QueryRowContext(ctx, `
        SELECT id, content, likes, dislikes, post_id, parent_comment_id, profile_id
        FROM comments WHERE id = ?`, id).Scan(
		&comment.ID, &comment.Content, &comment.Likes, &comment.Dislikes,
		&comment.PostID, &comment.ParentCommentID, &comment.AuthorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) FindByPostAndParent(ctx context.Context, postID int64, parentID *int64, page, size int) ([]*model.Comment, error) {
	// parentID 为 nil 时只取顶层评论；排序固定为点赞数降序
	query := `
        SELECT id, content, likes, dislikes, post_id, parent_comment_id, profile_id
        FROM comments
        WHERE post_id = ? AND (parent_comment_id = ? OR (? IS NULL AND parent_comment_id IS NULL))
        ORDER BY likes DESC
        LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, postID, parentID, parentID, size, page*size)
	if err != nil {
		util.Logger.Error("查询评论列表失败", zap.Error(err), zap.Int64("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		var comment model.Comment
		if err := rows.Scan(&comment.ID, &comment.Content, &comment.Likes, &comment.Dislikes,
			&comment.PostID, &comment.ParentCommentID, &comment.AuthorID); err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}
	return comments, rows.Err()
}

func (r *commentRepository) UpdateReactionCounts(ctx context.Context, id, likes, dislikes int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE comments SET likes = ?, dislikes = ? WHERE id = ?`, likes, dislikes, id)
	if err != nil {
		util.Logger.Error("更新评论计数失败", zap.Error(err), zap.Int64("comment_id", id))
	}
	return err
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM reactions WHERE target_kind = ? AND target_id = ?`, model.TargetComment, id)
	if err != nil {
		util.Logger.Error("清除评论反应失败", zap.Error(err), zap.Int64("comment_id", id))
		return err
	}

	// 回复由外键级联删除
	_, err = tx.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int64("comment_id", id))
		return err
	}

	return tx.Commit()
}
