package dto

import (
	"fmt"
	"time"

	"github.com/turtacn/sentinel/pkg/errors"
)

// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO 错误信息 DTO
type ErrorDTO struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// SuccessResponse 创建成功响应
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse 创建错误响应
func ErrorResponse(err error, traceID string) *APIResponse {
	var errorDTO *ErrorDTO

	if sErr, ok := errors.AsSentinelError(err); ok {
		errorDTO = &ErrorDTO{
			Code:        string(sErr.Code()),
			Message:     sErr.Error(),
			Description: sErr.Description(),
			Details:     stringifyMetadata(sErr.Metadata()),
		}
	} else {
		errorDTO = &ErrorDTO{
			Code:        string(errors.CodeServerError),
			Message:     "Internal server error",
			Description: "The server encountered an unexpected condition",
		}
	}

	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// RateLimitExceededResponse 创建速率限制响应
func RateLimitExceededResponse(retryAfter time.Duration, traceID string) *APIResponse {
	resp := ErrorResponse(errors.ErrRateLimitExceeded("client"), traceID)
	if resp.Error.Details == nil {
		resp.Error.Details = map[string]string{}
	}
	resp.Error.Details["retry_after"] = fmt.Sprintf("%d", int(retryAfter.Seconds()+0.5))
	return resp
}

func stringifyMetadata(md map[string]interface{}) map[string]string {
	if len(md) == 0 {
		return nil
	}
	out := make(map[string]string, len(md))
	for k, v := range md {
		out[k] = fmt.Sprint(v)
	}
	return out
}
