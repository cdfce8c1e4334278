package errors

import (
	"net/http"
	"time"

	"github.com/majwic/namilx-api/internal/jsondoc"

	"github.com/gin-gonic/gin"
)

// 错误码与HTTP状态码映射
var errorStatusMap = map[ErrorCode]int{
	ErrNotFound:     http.StatusNotFound,
	ErrUnauthorized: http.StatusUnauthorized,
	ErrConflict:     http.StatusConflict,
	ErrFormat:       http.StatusNotAcceptable,
	ErrInternal:     http.StatusInternalServerError,
}

// 错误码与对外错误标签映射
var errorLabelMap = map[ErrorCode]string{
	ErrNotFound:     "NOT_FOUND",
	ErrUnauthorized: "UNAUTHORIZED",
	ErrConflict:     "CONFLICT",
	ErrFormat:       "NOT_ACCEPTABLE",
	ErrInternal:     "INTERNAL",
}

// HandleError 统一处理错误响应，响应体固定为 {error, message, timestamp}
func HandleError(c *gin.Context, err error) {
	code := ErrInternal
	message := "Internal Server Error"

	if appErr, ok := err.(*AppError); ok {
		code = appErr.Code
		message = appErr.Message
	}

	status, ok := errorStatusMap[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	c.Error(err)

	body := jsondoc.New().
		Add("error", errorLabelMap[code]).
		Add("message", message).
		Add("timestamp", time.Now().Format("2006-01-02T15:04:05.000"))

	c.Data(status, "application/json; charset=utf-8", []byte(body.Render()))
}
