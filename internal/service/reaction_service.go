package service

import (
	"context"

	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
)

// ReactionLedgerInterface 供处理器和其他服务 mock 使用
type ReactionLedgerInterface interface {
	SetReaction(ctx context.Context, kind model.TargetKind, targetID, profileID int64, isLike *bool) (int64, int64, error)
	Tally(ctx context.Context, kind model.TargetKind, targetID int64) (int64, int64, error)
	MyReaction(ctx context.Context, kind model.TargetKind, targetID, profileID int64) (*bool, error)
	EvictTarget(kind model.TargetKind, targetID int64)
}

// ReactionLedger 记录每个 (档案, 内容目标) 至多一条的表态，
// 并持有点赞/点踩计数的读穿缓存。
type ReactionLedger struct {
	reactionRepo interfaces.ReactionRepository
	cache        *tallyCache
}

// NewReactionLedger 创建一个新的 ReactionLedger 实例
func NewReactionLedger(reactionRepo interfaces.ReactionRepository) *ReactionLedger {
	return &ReactionLedger{
		reactionRepo: reactionRepo,
		cache:        newTallyCache(),
	}
}

// SetReaction 写入或清除一条反应（isLike 为 nil 表示清除），
// 返回写入后的最新计数。存储层在同一事务里完成查改和重算，
// 这里用返回值重填缓存，使同一逻辑操作内的写后读不会读到旧值。
func (l *ReactionLedger) SetReaction(ctx context.Context, kind model.TargetKind, targetID, profileID int64, isLike *bool) (int64, int64, error) {
	likes, dislikes, err := l.reactionRepo.Set(ctx, kind, targetID, profileID, isLike)
	if err != nil {
		return 0, 0, err
	}

	l.cache.put(kind, targetID, true, likes)
	l.cache.put(kind, targetID, false, dislikes)

	util.Logger.Debug("反应已写入",
		zap.String("target_kind", string(kind)),
		zap.Int64("target_id", targetID),
		zap.Int64("likes", likes),
		zap.Int64("dislikes", dislikes))

	return likes, dislikes, nil
}

// Tally 返回目标的点赞/点踩计数，按极性分别走读穿缓存
func (l *ReactionLedger) Tally(ctx context.Context, kind model.TargetKind, targetID int64) (int64, int64, error) {
	likes, err := l.count(ctx, kind, targetID, true)
	if err != nil {
		return 0, 0, err
	}
	dislikes, err := l.count(ctx, kind, targetID, false)
	if err != nil {
		return 0, 0, err
	}
	return likes, dislikes, nil
}

func (l *ReactionLedger) count(ctx context.Context, kind model.TargetKind, targetID int64, isLike bool) (int64, error) {
	if count, ok := l.cache.get(kind, targetID, isLike); ok {
		return count, nil
	}

	count, err := l.reactionRepo.Count(ctx, kind, targetID, isLike)
	if err != nil {
		return 0, err
	}
	l.cache.put(kind, targetID, isLike, count)
	return count, nil
}

// MyReaction 点查请求者自己的表态，匿名调用（profileID 为 0）直接返回空
func (l *ReactionLedger) MyReaction(ctx context.Context, kind model.TargetKind, targetID, profileID int64) (*bool, error) {
	if profileID == 0 {
		return nil, nil
	}

	reaction, err := l.reactionRepo.Find(ctx, kind, targetID, profileID)
	if err != nil {
		return nil, err
	}
	if reaction == nil {
		return nil, nil
	}
	isLike := reaction.IsLike
	return &isLike, nil
}

// EvictTarget 在目标被删除后丢弃其缓存条目
func (l *ReactionLedger) EvictTarget(kind model.TargetKind, targetID int64) {
	l.cache.evict(kind, targetID)
}
