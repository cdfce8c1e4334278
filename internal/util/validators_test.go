package util

import (
	"testing"

	"github.com/majwic/namilx-api/internal/errors"

	"github.com/stretchr/testify/assert"
)

func assertFormatError(t *testing.T, err error, message string) {
	t.Helper()
	appErr, ok := err.(*errors.AppError)
	assert.True(t, ok, "期望 AppError，实际是 %T", err)
	assert.Equal(t, errors.ErrFormat, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

// TestValidateEmail 测试邮箱校验
func TestValidateEmail(t *testing.T) {
	email, err := ValidateEmail("user@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	_, err = ValidateEmail("")
	assertFormatError(t, err, "Profile email cannot be empty")

	_, err = ValidateEmail("not-an-email")
	assertFormatError(t, err, "Profile email has invalid formatting")
}

// TestValidatePassword 测试密码强度校验
func TestValidatePassword(t *testing.T) {
	password, err := ValidatePassword("Password1")
	assert.NoError(t, err)
	assert.Equal(t, "Password1", password)

	_, err = ValidatePassword("")
	assertFormatError(t, err, "Profile password cannot be empty")

	// 缺大写、缺数字、太短
	for _, weak := range []string{"password1", "Passwords", "Pa1"} {
		_, err = ValidatePassword(weak)
		assertFormatError(t, err, "Profile password has invalid formatting")
	}
}

// TestValidateDisplayName 测试显示名称校验
func TestValidateDisplayName(t *testing.T) {
	name, err := ValidateDisplayName("some name")
	assert.NoError(t, err)
	assert.Equal(t, "some name", name)

	_, err = ValidateDisplayName("")
	assertFormatError(t, err, "Profile displayName cannot be empty")

	_, err = ValidateDisplayName("ab")
	assertFormatError(t, err, "Profile displayName has invalid formatting")

	_, err = ValidateDisplayName("bad!name")
	assertFormatError(t, err, "Profile displayName has invalid formatting")
}

// TestRequireFields 测试未定型请求体的声明式校验
func TestRequireFields(t *testing.T) {
	body := map[string]interface{}{
		"content": "hello",
		"tags":    []interface{}{"tag1"},
		"postId":  float64(3),
	}

	err := RequireFields(body, map[string]string{
		"content": TypeString,
		"tags":    TypeList,
		"postId":  TypeNumber,
	})
	assert.NoError(t, err)

	err = RequireFields(body, map[string]string{"missing": TypeString})
	assertFormatError(t, err, "The 'missing' field is required")

	err = RequireFields(body, map[string]string{"content": TypeNumber})
	assertFormatError(t, err, "The 'content' field must be of type Number")

	err = RequireFields(body, map[string]string{"postId": TypeList})
	assertFormatError(t, err, "The 'postId' field must be of type List")
}
