package shared

import (
	"net/http"

	"github.com/brewcart/internal/http/response"
	"github.com/brewcart/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondContractError 按对外契约返回裸 JSON 错误体 {"message": ...}，
// 并在有原始错误时记录日志。分享购物车接口的错误响应形态固定，
// 不走统一响应信封。
func RespondContractError(c *gin.Context, status int, msg string, err error) {
	appErr := response.WrapError(status, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	c.JSON(status, gin.H{"message": msg})
}

// RespondNotFound 分享码未找到
func RespondNotFound(c *gin.Context) {
	RespondContractError(c, http.StatusNotFound, "Not found", nil)
}
