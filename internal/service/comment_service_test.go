package service

import (
	"context"
	"testing"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/model"
	"github.com/majwic/namilx-api/internal/repository/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockCommentRepo 是 CommentRepository 的模拟实现
type MockCommentRepo struct {
	mock.Mock
}

func (m *MockCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepo) FindByID(ctx context.Context, id int64) (*model.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*model.Comment), args.Error(1)
}

func (m *MockCommentRepo) FindByPostAndParent(ctx context.Context, postID int64, parentID *int64, page, size int) ([]*model.Comment, error) {
	args := m.Called(ctx, postID, parentID, page, size)
	return args.Get(0).([]*model.Comment), args.Error(1)
}

func (m *MockCommentRepo) UpdateReactionCounts(ctx context.Context, id, likes, dislikes int64) error {
	args := m.Called(ctx, id, likes, dislikes)
	return args.Error(0)
}

func (m *MockCommentRepo) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ interfaces.CommentRepository = (*MockCommentRepo)(nil)

func int64Ptr(v int64) *int64 { return &v }

func newCommentServiceMocks() (*MockCommentRepo, *MockPostRepo, *MockProfileRepo, *MockLedger, *CommentService) {
	mockCommentRepo := new(MockCommentRepo)
	mockPostRepo := new(MockPostRepo)
	mockProfileRepo := new(MockProfileRepo)
	mockLedger := new(MockLedger)
	svc := NewCommentService(mockCommentRepo, mockPostRepo, mockProfileRepo, mockLedger)
	return mockCommentRepo, mockPostRepo, mockProfileRepo, mockLedger, svc
}

// TestCreateComment 测试顶层评论的创建
func TestCreateComment(t *testing.T) {
	mockCommentRepo, mockPostRepo, mockProfileRepo, mockLedger, svc := newCommentServiceMocks()
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, int64(1)).Return(&model.Post{ID: 1}, nil)
	mockProfileRepo.On("FindByID", ctx, int64(7)).Return(&model.Profile{ID: 7}, nil)
	mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*model.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Comment).ID = 10
		}).
		Return(nil)
	mockLedger.On("Tally", ctx, model.TargetComment, int64(10)).Return(int64(0), int64(0), nil)
	mockLedger.On("MyReaction", ctx, model.TargetComment, int64(10), int64(7)).Return((*bool)(nil), nil)

	view, err := svc.Create(ctx, 7, 1, "reply text", nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(10), view.Comment.ID)
	assert.Equal(t, int64(1), view.Comment.PostID)
	assert.Nil(t, view.Comment.ParentCommentID)

	mockCommentRepo.AssertExpectations(t)
}

// TestCreateCommentParentFromOtherPost 测试父评论只做存在性解析，
// 挂在其他帖子下的父评论也被接受
func TestCreateCommentParentFromOtherPost(t *testing.T) {
	mockCommentRepo, mockPostRepo, mockProfileRepo, mockLedger, svc := newCommentServiceMocks()
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, int64(1)).Return(&model.Post{ID: 1}, nil)
	mockProfileRepo.On("FindByID", ctx, int64(7)).Return(&model.Profile{ID: 7}, nil)
	mockCommentRepo.On("FindByID", ctx, int64(99)).
		Return(&model.Comment{ID: 99, PostID: 2}, nil)
	mockCommentRepo.On("Create", ctx, mock.AnythingOfType("*model.Comment")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*model.Comment).ID = 11
		}).
		Return(nil)
	mockLedger.On("Tally", ctx, model.TargetComment, int64(11)).Return(int64(0), int64(0), nil)
	mockLedger.On("MyReaction", ctx, model.TargetComment, int64(11), int64(7)).Return((*bool)(nil), nil)

	view, err := svc.Create(ctx, 7, 1, "reply text", int64Ptr(99))
	assert.NoError(t, err)
	assert.Equal(t, int64(99), *view.Comment.ParentCommentID)
}

// TestCreateCommentMissingParent 测试父评论不存在时拒绝
func TestCreateCommentMissingParent(t *testing.T) {
	mockCommentRepo, mockPostRepo, mockProfileRepo, _, svc := newCommentServiceMocks()
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, int64(1)).Return(&model.Post{ID: 1}, nil)
	mockProfileRepo.On("FindByID", ctx, int64(7)).Return(&model.Profile{ID: 7}, nil)
	mockCommentRepo.On("FindByID", ctx, int64(404)).Return((*model.Comment)(nil), nil)

	_, err := svc.Create(ctx, 7, 1, "reply text", int64Ptr(404))
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Equal(t, "Comment not found", err.(*errors.AppError).Message)

	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// TestCreateCommentMissingPost 测试帖子不存在时拒绝
func TestCreateCommentMissingPost(t *testing.T) {
	_, mockPostRepo, _, _, svc := newCommentServiceMocks()
	ctx := context.Background()

	mockPostRepo.On("FindByID", ctx, int64(404)).Return((*model.Post)(nil), nil)

	_, err := svc.Create(ctx, 7, 404, "reply text", nil)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
	assert.Equal(t, "Post not found", err.(*errors.AppError).Message)
}

// TestListComments 测试分页列举与页大小收敛
func TestListComments(t *testing.T) {
	mockCommentRepo, _, _, mockLedger, svc := newCommentServiceMocks()
	ctx := context.Background()

	comments := []*model.Comment{
		{ID: 10, PostID: 1, AuthorID: 7},
		{ID: 11, PostID: 1, AuthorID: 8},
	}
	mockCommentRepo.On("FindByPostAndParent", ctx, int64(1), (*int64)(nil), 0, 20).
		Return(comments, nil)
	mockLedger.On("Tally", ctx, model.TargetComment, mock.AnythingOfType("int64")).
		Return(int64(0), int64(0), nil)
	mockLedger.On("MyReaction", ctx, model.TargetComment, mock.AnythingOfType("int64"), int64(0)).
		Return((*bool)(nil), nil)

	views, err := svc.List(ctx, 1, nil, 0, 100, 0)
	assert.NoError(t, err)
	assert.Len(t, views, 2)

	mockCommentRepo.AssertExpectations(t)
}

// TestDeleteCommentAuthorOnly 测试只有作者能删除评论
func TestDeleteCommentAuthorOnly(t *testing.T) {
	mockCommentRepo, _, _, mockLedger, svc := newCommentServiceMocks()
	ctx := context.Background()

	mockCommentRepo.On("FindByID", ctx, int64(10)).
		Return(&model.Comment{ID: 10, PostID: 1, AuthorID: 7}, nil)

	err := svc.Delete(ctx, 9, 10)
	assert.True(t, errors.IsCode(err, errors.ErrUnauthorized))
	assert.Equal(t, "Comment does not belong to profile.", err.(*errors.AppError).Message)

	mockCommentRepo.On("Delete", ctx, int64(10)).Return(nil)
	mockLedger.On("EvictTarget", model.TargetComment, int64(10)).Return()

	assert.NoError(t, svc.Delete(ctx, 7, 10))
	mockCommentRepo.AssertExpectations(t)
}
