package service

import "errors"

// 服务层预期失败的哨兵错误，处理器用 errors.Is 映射为响应码
var (
	// ErrEncodedPayloadMissing 请求缺少编码载荷
	ErrEncodedPayloadMissing = errors.New("missing encoded cart data")
	// ErrShareCodeNotFound 分享码不存在或已过期
	ErrShareCodeNotFound = errors.New("share code not found")
)
