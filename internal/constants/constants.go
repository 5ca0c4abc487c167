package constants

// 分享码常量
const (
	// ShareCodeLength 分享码长度（大写十六进制字符）
	ShareCodeLength = 8
	// ShareCodeMaxAttempts 分享码冲突重试上限
	ShareCodeMaxAttempts = 5
	// LocalShareCodeLength 本地降级分享码长度（截取 token 前缀）
	LocalShareCodeLength = 12
	// LocalShareCodePrefix 本地降级分享码存储键前缀
	LocalShareCodePrefix = "cart_share_"
)

// 同步信封常量
const (
	// SyncEnvelopeKey 当前购物车同步信封键（单槽邮箱，每次变更覆盖）
	SyncEnvelopeKey = "current_cart_sync"
)

// 分享链接常量
const (
	// ShareLinkParam 分享链接中携带编码购物车的查询参数名
	ShareLinkParam = "sharedCart"
)

// 缓存键常量
const (
	// CacheKeyShareCode 分享码查询缓存键前缀
	CacheKeyShareCode = "shared_cart:code:"
)

// 队列常量
const (
	// QueueDefault 默认队列名称
	QueueDefault = "default"
	// TaskSharedCartPurge 过期分享码清理任务
	TaskSharedCartPurge = "shared_cart:purge_expired"
)
