package service

import (
	"context"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"
	"github.com/majwic/namilx-api/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// defaultDisplayName 是新档案的初始显示名称
const defaultDisplayName = "not named"

// UpdateProfileRequest 是档案更新操作的入参，可选字段为 nil 表示不修改
type UpdateProfileRequest struct {
	CurrentPassword string
	DisplayName     *string
	Email           *string
	NewPassword     *string
}

// ProfileServiceInterface 供处理器 mock 使用
type ProfileServiceInterface interface {
	Read(ctx context.Context, id int64) (*model.Profile, error)
	Create(ctx context.Context, email, password string) (*model.Profile, error)
	Update(ctx context.Context, id int64, req *UpdateProfileRequest) (*model.Profile, error)
	Delete(ctx context.Context, id int64, password string) error
}

// ProfileService 处理档案的注册、自助更新与删除
type ProfileService struct {
	profileRepo interfaces.ProfileRepository
	roleRepo    interfaces.RoleRepository
}

// NewProfileService 创建一个新的 ProfileService 实例
func NewProfileService(profileRepo interfaces.ProfileRepository, roleRepo interfaces.RoleRepository) *ProfileService {
	return &ProfileService{
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
	}
}

func (s *ProfileService) Read(ctx context.Context, id int64) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("Profile not found")
	}
	return profile, nil
}

// Create 注册新档案：校验格式、检查邮箱唯一性、挂接内置 USER 角色
func (s *ProfileService) Create(ctx context.Context, email, password string) (*model.Profile, error) {
	email, err := util.ValidateEmail(email)
	if err != nil {
		return nil, err
	}
	password, err = util.ValidatePassword(password)
	if err != nil {
		return nil, err
	}

	exists, err := s.profileRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("Profile already exists with email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	userRole, err := s.roleRepo.FindByName(ctx, "USER")
	if err != nil {
		return nil, err
	}
	if userRole == nil {
		return nil, errors.NotFound("Role not found")
	}

	profile := &model.Profile{
		Email:        email,
		PasswordHash: string(hashed),
		DisplayName:  defaultDisplayName,
		Roles:        []model.Role{*userRole},
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}

	util.Logger.Info("档案创建成功", zap.Int64("profile_id", profile.ID))
	return profile, nil
}

// Update 自助更新档案，必须携带当前密码；可选字段逐项校验后写回
func (s *ProfileService) Update(ctx context.Context, id int64, req *UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, errors.NotFound("Profile not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return nil, errors.Unauthorized("The 'currentPassword' field is incorrect")
	}

	if req.DisplayName != nil {
		displayName, err := util.ValidateDisplayName(*req.DisplayName)
		if err != nil {
			return nil, err
		}
		profile.DisplayName = displayName
	}

	if req.Email != nil {
		exists, err := s.profileRepo.ExistsByEmail(ctx, *req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errors.Conflict("Profile already exists with email")
		}
		email, err := util.ValidateEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		profile.Email = email
	}

	if req.NewPassword != nil {
		password, err := util.ValidatePassword(*req.NewPassword)
		if err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		profile.PasswordHash = string(hashed)
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Delete 删除自己的档案，需再次验证密码
func (s *ProfileService) Delete(ctx context.Context, id int64, password string) error {
	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.NotFound("Profile not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return errors.Unauthorized("Incorrect password")
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		return err
	}

	util.Logger.Info("档案已删除", zap.Int64("profile_id", id))
	return nil
}
