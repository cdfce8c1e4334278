package util

import (
	"strconv"
	"time"

	"github.com/majwic/namilx-api/config"
	"github.com/majwic/namilx-api/internal/errors"

	"github.com/dgrijalva/jwt-go"
)

// tokenTTL 与会话 cookie 的 Max-Age（28800 秒）保持一致
const tokenTTL = 8 * time.Hour

// GenerateToken 为指定档案签发一个有时限的会话令牌
func GenerateToken(profileID int64) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   strconv.FormatInt(profileID, 10),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(tokenTTL).Unix(),
	})

	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

// ValidateToken 校验签名和有效期，返回令牌主体对应的档案ID。
// 任何失败（签名错误、主体不是数字、已过期）都返回同一个未授权错误。
func ValidateToken(tokenString string) (int64, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Unauthorized("Session token is invalid")
		}
		return []byte(config.AppConfig.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, errors.Unauthorized("Session token is invalid")
	}

	profileID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.Unauthorized("Session token is invalid")
	}

	return profileID, nil
}
