package service

import (
	"context"
	"net/http"

	"github.com/majwic/namilx-api/internal/errors"
	"github.com/majwic/namilx-api/internal/repository/interfaces"
	"github.com/majwic/namilx-api/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// SessionCookieName 是携带会话令牌的 cookie 名称
const SessionCookieName = "jwtTokenNamilx"

// AuthServiceInterface 供处理器和中间件 mock 使用
type AuthServiceInterface interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	IdentifyOptional(r *http.Request) (int64, error)
	IdentifyRequired(r *http.Request) (int64, error)
	AssertProfileExists(ctx context.Context, profileID int64) error
}

// AuthService 负责会话凭证的签发与解析。
// 凭证本身无状态；存储只在显式校验档案仍存在时才会被读取。
type AuthService struct {
	profileRepo interfaces.ProfileRepository
}

// NewAuthService 创建一个新的 AuthService 实例
func NewAuthService(profileRepo interfaces.ProfileRepository) *AuthService {
	return &AuthService{profileRepo: profileRepo}
}

// SignIn 校验登录凭证并签发会话令牌
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, error) {
	profile, err := s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if profile == nil {
		return "", errors.NotFound("Profile not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)) != nil {
		return "", errors.Unauthorized("Incorrect password")
	}

	return util.GenerateToken(profile.ID)
}

// IdentifyOptional 从请求中解析会话凭证；
// cookie 缺失返回 (0, nil)，凭证无效则原样上浮未授权错误
func (s *AuthService) IdentifyOptional(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return 0, nil
	}
	return util.ValidateToken(cookie.Value)
}

// IdentifyRequired 与 IdentifyOptional 相同，但 cookie 缺失视为错误
func (s *AuthService) IdentifyRequired(r *http.Request) (int64, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return 0, errors.Unauthorized("Session token is missing")
	}
	return util.ValidateToken(cookie.Value)
}

// AssertProfileExists 确认凭证主体对应的档案仍然存在。
// 凭证在签发后保持有效，这里是拒绝已删除档案会话的显式校验点。
func (s *AuthService) AssertProfileExists(ctx context.Context, profileID int64) error {
	profile, err := s.profileRepo.FindByID(ctx, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.NotFound("Profile not found")
	}
	return nil
}
