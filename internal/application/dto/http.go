package dto

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/sentinel/pkg/constants"
	"github.com/turtacn/sentinel/pkg/errors"
)

// SendSuccess 写入成功响应
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.Set(string(constants.ContextKeyETagPayload), data)
	c.JSON(status, SuccessResponse(data, traceIDOf(c)))
}

// SendError 写入错误响应，HTTP 状态码取自错误类型
func SendError(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatusOf(err), ErrorResponse(err, traceIDOf(c)))
}

// AbortWithError 写入错误响应并终止后续处理
func AbortWithError(c *gin.Context, err error) {
	SendError(c, err)
	c.Abort()
}

func traceIDOf(c *gin.Context) string {
	if id := c.GetString(string(constants.ContextKeyTraceID)); id != "" {
		return id
	}
	return c.GetString(string(constants.ContextKeyRequestID))
}
