package restapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hls-vod-service/pkg/errno"
)

// Response 统一JSON响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 返回成功响应
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed 根据错误类型返回失败响应
func Failed(ctx *gin.Context, err error) {
	var e *errno.Errno
	if !errors.As(err, &e) {
		e = errno.ErrUnknown
	}
	ctx.JSON(httpStatus(e), Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

func httpStatus(e *errno.Errno) int {
	switch {
	case e.Code >= 400 && e.Code < 500:
		return e.Code
	case e == errno.ErrVideoNotFound || e == errno.ErrKeyNotFound ||
		e == errno.ErrManifestMissing || e == errno.ErrSegmentMissing:
		return http.StatusNotFound
	case e == errno.ErrMissingParam || e == errno.ErrFileNameIllegal:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
