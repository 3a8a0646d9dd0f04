package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/sentinel/pkg/constants"
)

// bodyCacheWriter buffers the response body so the ETag can be computed before it is sent.
// bodyCacheWriter 缓冲响应正文，以便在发送前计算 ETag。
type bodyCacheWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCacheWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *bodyCacheWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// ETagCache implements conditional GETs for the read-only feed endpoints.
// The ETag is a SHA-256 of the response data stored by dto.SendSuccess, so the
// per-response envelope fields (timestamp, trace id) do not defeat it.
// A matching If-None-Match yields 304 Not Modified.
// ETagCache 为只读数据接口实现基于 ETag 的条件请求。
func ETagCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		bcw := &bodyCacheWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = bcw

		c.Next()

		c.Writer = bcw.ResponseWriter
		responseBody := bcw.body.Bytes()

		if c.Writer.Status() == http.StatusOK {
			if etag, ok := computeETag(c, responseBody); ok {
				c.Header("ETag", etag)
				c.Header("Cache-Control", "private, no-cache")

				if match := c.GetHeader("If-None-Match"); match == etag {
					c.Writer.WriteHeader(http.StatusNotModified)
					c.Writer.WriteHeaderNow()
					return
				}
			}
		}

		_, _ = c.Writer.Write(responseBody)
	}
}

func computeETag(c *gin.Context, body []byte) (string, bool) {
	source := body
	if payload, ok := c.Get(string(constants.ContextKeyETagPayload)); ok {
		raw, err := json.Marshal(payload)
		if err != nil {
			return "", false
		}
		source = raw
	}
	if len(source) == 0 {
		return "", false
	}
	return fmt.Sprintf(`"%x"`, sha256.Sum256(source)), true
}
