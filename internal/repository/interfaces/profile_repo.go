package interfaces

import (
	"context"

	"github.com/majwic/namilx-api/internal/model"
)

// ProfileRepository 定义了档案相关的数据库操作接口。
// 查询方法在记录不存在时返回 (nil, nil)，由服务层决定是否视为错误。
type ProfileRepository interface {
	// Create 在一个事务内插入档案及其角色关联（保持角色顺序）
	Create(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id int64) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, profile *model.Profile) error
	Delete(ctx context.Context, id int64) error
}

// RoleRepository 定义了角色相关的数据库操作接口
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*model.Role, error)
	FindByProfile(ctx context.Context, profileID int64) ([]model.Role, error)
	// EnsureDefaults 在启动时补齐缺失的内置角色
	EnsureDefaults(ctx context.Context, names []string) error
}
