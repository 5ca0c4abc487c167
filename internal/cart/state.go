package cart

import (
	"sync"

	"github.com/brewcart/internal/cartshare"
	"github.com/brewcart/internal/cartsync"
	"github.com/brewcart/internal/logger"
	"github.com/brewcart/internal/models"

	"github.com/shopspring/decimal"
)

// State 单个上下文持有的购物车状态。显式构造、显式关闭：
// 创建时挂上同步通道订阅并可从信封回灌，Close 注销订阅。
// 每次本地变更按发生顺序整体发布到同步通道；来自通道的更新
// 只替换内存状态，不再转发（通道已保证写入方收不到自己的广播）。
type State struct {
	mu       sync.Mutex
	items    []cartshare.CartItem
	hub      *cartsync.Hub
	originID string
	dispose  func()
}

// NewState 创建购物车状态并注册同步订阅
func NewState(hub *cartsync.Hub, originID string) *State {
	s := &State{hub: hub, originID: originID}
	if hub != nil {
		s.dispose = hub.Subscribe(originID, s.applySync)
	}
	return s
}

// Hydrate 从同步信封回灌状态（启动时调用一次）。信封为空或
// 不可解码时保持空购物车。
func (s *State) Hydrate() {
	if s.hub == nil {
		return
	}
	token, ok := s.hub.Envelope()
	if !ok {
		return
	}
	payload := cartshare.Decode(token)
	if payload == nil {
		return
	}
	s.mu.Lock()
	s.items = sanitize(payload.Items)
	s.mu.Unlock()
}

// Close 注销同步订阅（幂等）
func (s *State) Close() {
	if s.dispose != nil {
		s.dispose()
	}
}

// Add 加入商品：已存在则数量加一，否则以数量 1 追加
func (s *State) Add(item cartshare.CartItem) {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		item.Quantity = 1
		s.items = append(s.items, item)
	}
	s.mu.Unlock()
	s.publish()
}

// Remove 移除商品
func (s *State) Remove(itemID string) {
	s.mu.Lock()
	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()
	s.publish()
}

// UpdateQuantity 更新数量；数量归零或为负时移除该商品
func (s *State) UpdateQuantity(itemID string, quantity int) {
	if quantity <= 0 {
		s.Remove(itemID)
		return
	}
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.mu.Unlock()
	s.publish()
}

// Clear 清空购物车。清空同样要发布——一个上下文清空，
// 其他上下文必须跟着清空。
func (s *State) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	s.publish()
}

// Load 整体替换购物车内容（链接/分享码导入的整车替换路径）
func (s *State) Load(items []cartshare.CartItem) {
	s.mu.Lock()
	s.items = sanitize(items)
	s.mu.Unlock()
	s.publish()
}

// Append 逐项追加，商品已存在时累加数量（会话辅助下单路径）
func (s *State) Append(items []cartshare.CartItem) {
	s.mu.Lock()
	for _, incoming := range items {
		if incoming.Quantity <= 0 {
			continue
		}
		found := false
		for i := range s.items {
			if s.items[i].ID == incoming.ID {
				s.items[i].Quantity += incoming.Quantity
				found = true
				break
			}
		}
		if !found {
			s.items = append(s.items, incoming)
		}
	}
	s.mu.Unlock()
	s.publish()
}

// Items 返回当前行项副本
func (s *State) Items() []cartshare.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]cartshare.CartItem(nil), s.items...)
}

// Total 购物车总金额
func (s *State) Total() models.Money {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := decimal.Zero
	for _, item := range s.items {
		line := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return models.NewMoneyFromDecimal(total)
}

// Count 购物车商品总件数
func (s *State) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// applySync 处理同步通道投递：整体替换，不再发布
func (s *State) applySync(items []cartshare.CartItem) {
	s.mu.Lock()
	s.items = sanitize(items)
	s.mu.Unlock()
}

// publish 将当前购物车整体编码后覆盖同步信封。
// 不持有 s.mu 调用：投递是同步的，持锁发布会让两个上下文的
// 并发变更互相等锁。
func (s *State) publish() {
	if s.hub == nil {
		return
	}
	token, err := cartshare.Encode(s.Items())
	if err != nil {
		logger.Errorw("cart_publish_encode_failed", "origin", s.originID, "error", err)
		return
	}
	s.hub.Publish(s.originID, token)
}

// sanitize 过滤非法行项：数量小于 1 的行项不允许存在于购物车
func sanitize(items []cartshare.CartItem) []cartshare.CartItem {
	kept := make([]cartshare.CartItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
