package cartsync

import (
	"sync"

	"github.com/brewcart/internal/cartshare"
	"github.com/brewcart/internal/constants"
	"github.com/brewcart/internal/logger"
)

// Handler 同步回调：收到其他上下文发布的新购物车行项
type Handler func(items []cartshare.CartItem)

// Hub 同端多上下文购物车同步通道。单槽信封：每次发布整体覆盖
// 最新的编码购物车，订阅方收到后整体替换本地状态（后写者胜，
// 不做合并）。
//
// 发布携带来源标识，投递时跳过来源自身的订阅——写入方永远收不到
// 自己的广播，否则每次变更都会被自己的旧广播覆盖回去，两个上下文
// 还可能互相震荡。
type Hub struct {
	mu          sync.RWMutex
	envelope    string // constants.SyncEnvelopeKey 槽位的当前值
	hasEnvelope bool
	subscribers map[string]Handler // 来源标识 -> 回调
}

// NewHub 创建同步通道
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]Handler)}
}

// Subscribe 注册订阅，返回幂等的注销函数。每个持有购物车的上下文
// 启动时注册一次，关闭时调用注销。
func (h *Hub) Subscribe(originID string, handler Handler) func() {
	h.mu.Lock()
	h.subscribers[originID] = handler
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subscribers, originID)
			h.mu.Unlock()
		})
	}
}

// Publish 覆盖信封并通知除来源外的所有订阅。空购物车同样发布——
// 一个上下文清空购物车必须让其他上下文也清空。解码失败的信封
// 静默丢弃，订阅方不会收到坏数据。
func (h *Hub) Publish(originID, token string) {
	h.mu.Lock()
	h.envelope = token
	h.hasEnvelope = true
	targets := make(map[string]Handler, len(h.subscribers))
	for id, handler := range h.subscribers {
		if id == originID {
			continue
		}
		targets[id] = handler
	}
	h.mu.Unlock()

	if len(targets) == 0 {
		return
	}
	payload := cartshare.Decode(token)
	if payload == nil {
		logger.Warnw("cart_sync_envelope_undecodable", "key", constants.SyncEnvelopeKey, "origin", originID)
		return
	}
	for _, handler := range targets {
		handler(payload.Items)
	}
}

// Envelope 读取信封当前值，用于新上下文启动时回灌状态
func (h *Hub) Envelope() (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.envelope, h.hasEnvelope
}
