package interfaces

import (
	"context"

	"github.com/majwic/namilx-api/internal/model"
)

// ReactionRepository 定义了反应账本的数据库操作接口
type ReactionRepository interface {
	// Find 点查某档案对某目标的反应，不存在时返回 (nil, nil)
	Find(ctx context.Context, kind model.TargetKind, targetID, profileID int64) (*model.Reaction, error)
	// Set 在一个事务内执行先查后改的写入（isLike 为 nil 时删除已有反应），
	// 并在同一事务内重新统计两个计数后返回，保证写后读不落后于本次写入
	Set(ctx context.Context, kind model.TargetKind, targetID, profileID int64, isLike *bool) (likes, dislikes int64, err error)
	// Count 统计某目标指定极性的反应数
	Count(ctx context.Context, kind model.TargetKind, targetID int64, isLike bool) (int64, error)
}
