package util

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/majwic/namilx-api/internal/errors"

	"github.com/go-playground/validator/v10"
)

// 请求体字段的运行时类型名，沿用对外契约中的写法
const (
	TypeString = "String"
	TypeNumber = "Number"
	TypeList   = "List"
)

var (
	emailRegex       = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,4}$`)
	displayNameRegex = regexp.MustCompile(`^[\w\s]{3,50}$`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("profile_email", func(fl validator.FieldLevel) bool {
		return emailRegex.MatchString(fl.Field().String())
	})
	v.RegisterValidation("profile_password", func(fl validator.FieldLevel) bool {
		return isPasswordStrong(fl.Field().String())
	})
	v.RegisterValidation("display_name", func(fl validator.FieldLevel) bool {
		return displayNameRegex.MatchString(fl.Field().String())
	})
	return v
}

// Go 的正则不支持前瞻，密码强度用程序化检查实现：
// 长度 8-250，至少一个数字、一个小写字母、一个大写字母
func isPasswordStrong(password string) bool {
	if len(password) < 8 || len(password) > 250 {
		return false
	}
	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}
	return hasDigit && hasLower && hasUpper
}

// ValidateEmail 校验邮箱格式，返回原值方便链式使用
func ValidateEmail(email string) (string, error) {
	if email == "" {
		return "", errors.Format("Profile email cannot be empty")
	}
	if err := validate.Var(email, "profile_email"); err != nil {
		return "", errors.Format("Profile email has invalid formatting")
	}
	return email, nil
}

// ValidatePassword 校验密码强度
func ValidatePassword(password string) (string, error) {
	if password == "" {
		return "", errors.Format("Profile password cannot be empty")
	}
	if err := validate.Var(password, "profile_password"); err != nil {
		return "", errors.Format("Profile password has invalid formatting")
	}
	return password, nil
}

// ValidateDisplayName 校验显示名称
func ValidateDisplayName(displayName string) (string, error) {
	if displayName == "" {
		return "", errors.Format("Profile displayName cannot be empty")
	}
	if err := validate.Var(displayName, "display_name"); err != nil {
		return "", errors.Format("Profile displayName has invalid formatting")
	}
	return displayName, nil
}

// RequireFields 对未定型的请求体做一次性声明校验。
// 缺失字段和类型不符都返回固定格式的提示信息。
func RequireFields(body map[string]interface{}, required map[string]string) error {
	for field, typeName := range required {
		value, ok := body[field]
		if !ok {
			return errors.Format(fmt.Sprintf("The '%s' field is required", field))
		}
		if !matchesType(value, typeName) {
			return errors.Format(fmt.Sprintf("The '%s' field must be of type %s", field, typeName))
		}
	}
	return nil
}

// JSON 解码后 String 对应 string，Number 对应 float64，List 对应 []interface{}
func matchesType(value interface{}, typeName string) bool {
	switch typeName {
	case TypeString:
		_, ok := value.(string)
		return ok
	case TypeNumber:
		_, ok := value.(float64)
		return ok
	case TypeList:
		_, ok := value.([]interface{})
		return ok
	}
	return false
}
