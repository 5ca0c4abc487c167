package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeOK 业务成功状态码
const CodeOK = 0

// Response 统一响应结构（健康检查等内部接口使用；
// 分享购物车接口按对外契约返回裸 JSON，见 handlers/public）
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码
	Msg        string      `json:"msg"`         // 提示消息
	Data       interface{} `json:"data"`        // 数据内容
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: CodeOK,
		Msg:        "success",
		Data:       data,
	})
}
