package mysql

import (
	"context"
	"database/sql"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

type reactionRepository struct {
	db *sql.DB
}

func NewReactionRepository(db *sql.DB) *reactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Find(ctx context.Context, kind model.TargetKind, targetID, profileID int64) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.QueryRowContext(ctx, `
        SELECT id, target_kind, target_id, profile_id, is_like
        FROM reactions
        WHERE target_kind = ? AND target_id = ? AND profile_id = ?`,
		kind, targetID, profileID).Scan(
		&reaction.ID, &reaction.TargetKind, &reaction.TargetID, &reaction.ProfileID, &reaction.IsLike)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// Set 执行先查后改的反应写入，并在同一事务内重算两个计数。
// 每个 (profile, target) 至多一行由这里的查改分支保证，存储层没有唯一约束；
// 同一档案对同一目标的并发写入以后写为准。
func (r *reactionRepository) Set(ctx context.Context, kind model.TargetKind, targetID, profileID int64, isLike *bool) (int64, int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRowContext(ctx, `
        SELECT id FROM reactions
        WHERE target_kind = ? AND target_id = ? AND profile_id = ?`,
		kind, targetID, profileID).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		if isLike != nil {
			_, err = tx.ExecContext(ctx, `
                INSERT INTO reactions (target_kind, target_id, profile_id, is_like)
                VALUES (?, ?, ?, ?)`, kind, targetID, profileID, *isLike)
		} else {
			// 清除不存在的反应是空操作
			err = nil
		}
	case err == nil:
		if isLike != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE reactions SET is_like = ? WHERE id = ?`, *isLike, existingID)
		} else {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM reactions WHERE id = ?`, existingID)
		}
	}
	if err != nil {
		util.Logger.Error("写入反应失败", zap.Error(err),
			zap.String("target_kind", string(kind)), zap.Int64("target_id", targetID))
		return 0, 0, err
	}

	likes, dislikes, err := countBoth(ctx, tx, kind, targetID)
	if err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

func (r *reactionRepository) Count(ctx context.Context, kind model.TargetKind, targetID int64, isLike bool) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `
        SELECT COUNT(*) FROM reactions
        WHERE target_kind = ? AND target_id = ? AND is_like = ?`,
		kind, targetID, isLike).Scan(&count)
	return count, err
}

func countBoth(ctx context.Context, tx *sql.Tx, kind model.TargetKind, targetID int64) (int64, int64, error) {
	var likes, dislikes int64
	err := tx.QueryRowContext(ctx, `
        SELECT
            COUNT(CASE WHEN is_like THEN 1 END),
            COUNT(CASE WHEN NOT is_like THEN 1 END)
        FROM reactions
        WHERE target_kind = ? AND target_id = ?`, kind, targetID).Scan(&likes, &dislikes)
	return likes, dislikes, err
}
