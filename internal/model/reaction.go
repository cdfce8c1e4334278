package model

// TargetKind 标记反应指向的内容类型
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Reaction 代表某个档案对某个内容目标的一次表态。
// 每个 (profile, target) 至多一行，由写入时的先查后改保证。
type Reaction struct {
	ID         int64
	TargetKind TargetKind
	TargetID   int64
	ProfileID  int64
	IsLike     bool
}
