package public

import (
	"errors"
	"net/http"
	"strings"

	"github.com/brewcart/internal/http/handlers/shared"
	"github.com/brewcart/internal/service"

	"github.com/gin-gonic/gin"
)

// SaveSharedCartRequest 保存分享购物车请求体
type SaveSharedCartRequest struct {
	Encoded string `json:"encoded"`
}

// SaveSharedCart 保存编码购物车并返回短分享码。
// 对外契约：400 {"message"} / 200 {"code"} / 500 {"message"}。
func (h *Handler) SaveSharedCart(c *gin.Context) {
	var req SaveSharedCartRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Encoded) == "" {
		shared.RespondContractError(c, http.StatusBadRequest, "Missing encoded cart data", nil)
		return
	}

	code, err := h.ShareService.Save(c.Request.Context(), req.Encoded)
	if err != nil {
		if errors.Is(err, service.ErrEncodedPayloadMissing) {
			shared.RespondContractError(c, http.StatusBadRequest, "Missing encoded cart data", nil)
			return
		}
		shared.RespondContractError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": code})
}

// GetSharedCart 按分享码取回编码购物车（大小写不敏感）。
// 对外契约：404 {"message"} / 200 {"encoded"}。载荷原样返回，
// 服务端不做结构校验。
func (h *Handler) GetSharedCart(c *gin.Context) {
	code := c.Param("code")

	encoded, err := h.ShareService.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrShareCodeNotFound) {
			shared.RespondNotFound(c)
			return
		}
		shared.RespondContractError(c, http.StatusInternalServerError, "Server error", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"encoded": encoded})
}
