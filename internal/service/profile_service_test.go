package service

import (
	"context"
	"testing"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockProfileRepo 是 ProfileRepository 的模拟实现
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) FindByID(ctx context.Context, id int64) (*model.Profile, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockProfileRepo) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ interfaces.ProfileRepository = (*MockProfileRepo)(nil)

// MockRoleRepo 是 RoleRepository 的模拟实现
type MockRoleRepo struct {
	mock.Mock
}

func (m *MockRoleRepo) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *MockRoleRepo) FindByProfile(ctx context.Context, profileID int64) ([]model.Role, error) {
	args := m.Called(ctx, profileID)
	return args.Get(0).([]model.Role), args.Error(1)
}

func (m *MockRoleRepo) EnsureDefaults(ctx context.Context, names []string) error {
	args := m.Called(ctx, names)
	return args.Error(0)
}

var _ interfaces.RoleRepository = (*MockRoleRepo)(nil)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

// TestCreateProfile 测试档案注册成功路径
func TestCreateProfile(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	mockProfileRepo.On("ExistsByEmail", ctx, "user@example.com").Return(false, nil)
	mockRoleRepo.On("FindByName", ctx, "USER").Return(&model.Role{ID: 1, Name: "USER"}, nil)
	mockProfileRepo.On("Create", ctx, mock.AnythingOfType("*model.Profile")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Profile).ID = 5
		}).
		Return(nil)

	profile, err := svc.Create(ctx, "user@example.com", "Password1")
	assert.NoError(t, err)
	assert.Equal(t, int64(5), profile.ID)
	assert.Equal(t, "not named", profile.DisplayName)
	assert.Len(t, profile.Roles, 1)
	assert.Equal(t, "USER", profile.Roles[0].Name)
	// 密码应以散列形式保存
	assert.NotEqual(t, "Password1", profile.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("Password1")))

	mockProfileRepo.AssertExpectations(t)
	mockRoleRepo.AssertExpectations(t)
}

// TestCreateProfileDuplicateEmail 测试重复邮箱注册被拒绝
func TestCreateProfileDuplicateEmail(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	mockProfileRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	_, err := svc.Create(ctx, "taken@example.com", "Password1")
	assert.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConflict))
	assert.Equal(t, "Profile already exists with email", err.(*errors.AppError).Message)

	mockProfileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateProfileInvalidInput 测试格式校验先于任何存储访问
func TestCreateProfileInvalidInput(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	_, err := svc.Create(ctx, "bad-email", "Password1")
	assert.True(t, errors.IsCode(err, errors.ErrFormat))

	_, err = svc.Create(ctx, "user@example.com", "weak")
	assert.True(t, errors.IsCode(err, errors.ErrFormat))

	mockProfileRepo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

// TestUpdateProfile 测试携带正确当前密码的字段更新
func TestUpdateProfile(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	existing := &model.Profile{
		ID:           5,
		Email:        "user@example.com",
		PasswordHash: mustHash(t, "Password1"),
		DisplayName:  "not named",
	}
	mockProfileRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
	mockProfileRepo.On("Update", ctx, existing).Return(nil)

	displayName := "new name"
	profile, err := svc.Update(ctx, 5, &UpdateProfileRequest{
		CurrentPassword: "Password1",
		DisplayName:     &displayName,
	})
	assert.NoError(t, err)
	assert.Equal(t, "new name", profile.DisplayName)

	mockProfileRepo.AssertExpectations(t)
}

// TestUpdateProfileWrongCurrentPassword 测试当前密码不匹配时拒绝更新
func TestUpdateProfileWrongCurrentPassword(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	existing := &model.Profile{ID: 5, PasswordHash: mustHash(t, "Password1")}
	mockProfileRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)

	_, err := svc.Update(ctx, 5, &UpdateProfileRequest{CurrentPassword: "WrongPass1"})
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
	assert.Equal(t, "The 'currentPassword' field is incorrect", err.(*errors.AppError).Message)

	mockProfileRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdateProfileEmailConflict 测试更新为已占用邮箱时拒绝
func TestUpdateProfileEmailConflict(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	existing := &model.Profile{ID: 5, PasswordHash: mustHash(t, "Password1")}
	mockProfileRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
	mockProfileRepo.On("ExistsByEmail", ctx, "taken@example.com").Return(true, nil)

	email := "taken@example.com"
	_, err := svc.Update(ctx, 5, &UpdateProfileRequest{
		CurrentPassword: "Password1",
		Email:           &email,
	})
	assert.True(t, errors.IsCode(err, errors.ErrConflict))
}

// TestDeleteProfile 测试密码复核后的档案删除
func TestDeleteProfile(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	existing := &model.Profile{ID: 5, PasswordHash: mustHash(t, "Password1")}
	mockProfileRepo.On("FindByID", ctx, int64(5)).Return(existing, nil)
	mockProfileRepo.On("Delete", ctx, int64(5)).Return(nil)

	assert.NoError(t, svc.Delete(ctx, 5, "Password1"))

	err := svc.Delete(ctx, 5, "WrongPass1")
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
	assert.Equal(t, "Incorrect password", err.(*errors.AppError).Message)

	mockProfileRepo.AssertExpectations(t)
}

// TestReadProfileMissing 测试读取不存在的档案
func TestReadProfileMissing(t *testing.T) {
	mockProfileRepo := new(MockProfileRepo)
	mockRoleRepo := new(MockRoleRepo)
	svc := NewProfileService(mockProfileRepo, mockRoleRepo)
	ctx := context.Background()

	mockProfileRepo.On("FindByID", ctx, int64(404)).Return((*model.Profile)(nil), nil)

	_, err := svc.Read(ctx, 404)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Equal(t, "Profile not found", err.(*errors.AppError).Message)
}
