package cartshare

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/brewcart/internal/constants"
)

// Encode 将行项序列包装为载荷并编码成可嵌入 URL 查询参数的 token。
// JSON 序列化后做 base64 URL-safe 编码，产出不需要再做百分号转义；
// 非 ASCII 字符（如商品名里的中文、日文）按 UTF-8 字节编码，可完整还原。
func Encode(items []CartItem) (string, error) {
	payload := SharedCartPayload{
		Items:    items,
		SharedAt: time.Now().UnixMilli(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode 还原 token 为分享载荷。任何失败都返回 nil 而不是错误：
// base64 损坏、JSON 损坏、items 字段缺失或不是数组，都视为同一种
// 结果——载荷不可信，调用方只需判空。
func Decode(token string) *SharedCartPayload {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil
	}

	// 先做结构校验：items 必须存在且为数组，否则整体拒绝
	var shape struct {
		Items json.RawMessage `json:"items"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return nil
	}
	trimmed := strings.TrimSpace(string(shape.Items))
	if trimmed == "" || !strings.HasPrefix(trimmed, "[") {
		return nil
	}

	var payload SharedCartPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}
	if payload.Items == nil {
		payload.Items = []CartItem{}
	}
	return &payload
}

// DeriveLocalCode 从 token 本身确定性地派生本地降级分享码：
// 截取前缀并统一大写，与服务端生成的短码同样可供人工输入。
func DeriveLocalCode(token string) string {
	code := token
	if len(code) > constants.LocalShareCodeLength {
		code = code[:constants.LocalShareCodeLength]
	}
	return strings.ToUpper(code)
}

// LocalStoreKey 本地降级存储中分享码对应的键
func LocalStoreKey(code string) string {
	return constants.LocalShareCodePrefix + strings.ToUpper(strings.TrimSpace(code))
}
