package errors

import "fmt"

// ErrorCode 定义错误码类型
type ErrorCode int

// 对外暴露的四类业务错误码，另加一个内部错误码
const (
	ErrNotFound ErrorCode = 1000 + iota
	ErrUnauthorized
	ErrConflict
	ErrFormat
	ErrInternal
)

// AppError 定义应用错误结构
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装已有错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound 引用的实体不存在
func NotFound(message string) *AppError { return New(ErrNotFound, message) }

// Unauthorized 凭证缺失、无效或操作者不匹配
func Unauthorized(message string) *AppError { return New(ErrUnauthorized, message) }

// Conflict 唯一性冲突
func Conflict(message string) *AppError { return New(ErrConflict, message) }

// Format 校验失败
func Format(message string) *AppError { return New(ErrFormat, message) }

// IsCode 判断 err 是否为指定错误码的 AppError
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
