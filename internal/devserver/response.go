package devserver

import (
	"errors"
	"net/http"

	"tutor_chat_client/pkg/errorx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleSuccess 返回成功响应
func handleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.CodeSuccess,
		"msg":  "success",
		"data": data,
	})
}

// handleError 通用错误处理
// 识别 errorx.CodeError 业务错误，未授权走 HTTP 403，
// 其余系统错误记录日志后返回服务繁忙
func handleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		status := http.StatusOK
		if codeErr.Code == errorx.CodeUnauthorized {
			status = http.StatusForbidden
		}
		c.JSON(status, gin.H{
			"code": codeErr.Code,
			"msg":  codeErr.Msg,
			"data": nil,
		})
		return
	}

	zap.L().Error("devserver system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, gin.H{
		"code": errorx.CodeServerBusy,
		"msg":  "服务繁忙",
		"data": nil,
	})
}

// handleParamError 处理参数绑定错误
func handleParamError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"code": errorx.ErrInvalidParam.Code,
		"msg":  err.Error(),
		"data": nil,
	})
}
