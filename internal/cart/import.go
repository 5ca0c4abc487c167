package cart

import (
	"net/url"
	"sync"

	"github.com/brewcart/internal/cartshare"
	"github.com/brewcart/internal/client"
	"github.com/brewcart/internal/constants"
	"github.com/brewcart/internal/models"

	"github.com/shopspring/decimal"
)

// ImportMode 导入模式
type ImportMode int

const (
	// ImportReplace 整车替换：链接/分享码导入的默认模式，
	// 分享的是一个完整购物车
	ImportReplace ImportMode = iota
	// ImportAppend 逐项追加，同商品累加数量（会话辅助下单路径）
	ImportAppend
)

// PreviewLine 预览行：行项加小计
type PreviewLine struct {
	Item      cartshare.CartItem
	LineTotal models.Money
}

// ImportPreview 导入预览：确认前展示的行项、小计与总计。
// 放弃预览没有任何副作用，直接丢弃即可。
type ImportPreview struct {
	Lines      []PreviewLine
	GrandTotal models.Money
	SharedAt   int64
	SharedBy   string
}

// NewImportPreview 从解码载荷构建导入预览
func NewImportPreview(payload *cartshare.SharedCartPayload) *ImportPreview {
	if payload == nil {
		return nil
	}
	preview := &ImportPreview{
		SharedAt: payload.SharedAt,
		SharedBy: payload.SharedBy,
	}
	total := decimal.Zero
	for _, item := range payload.Items {
		if item.Quantity < 1 {
			continue
		}
		line := item.Price.Decimal.Mul(decimal.NewFromInt(int64(item.Quantity)))
		preview.Lines = append(preview.Lines, PreviewLine{
			Item:      item,
			LineTotal: models.NewMoneyFromDecimal(line),
		})
		total = total.Add(line)
	}
	preview.GrandTotal = models.NewMoneyFromDecimal(total)
	return preview
}

// Items 预览包含的行项
func (p *ImportPreview) Items() []cartshare.CartItem {
	items := make([]cartshare.CartItem, 0, len(p.Lines))
	for _, line := range p.Lines {
		items = append(items, line.Item)
	}
	return items
}

// Confirm 确认导入：替换或追加到目标购物车
func (p *ImportPreview) Confirm(state *State, mode ImportMode) {
	if state == nil {
		return
	}
	switch mode {
	case ImportAppend:
		state.Append(p.Items())
	default:
		state.Load(p.Items())
	}
}

// LinkImporter 分享链接导入入口。每次导航只触发一次：
// 同一 token 解析过后不再重复弹出预览（刷新、回退不会重复导入），
// 并返回去掉分享参数后的地址供调用方回写。
type LinkImporter struct {
	facade *client.Facade

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewLinkImporter 创建链接导入器
func NewLinkImporter(facade *client.Facade) *LinkImporter {
	return &LinkImporter{facade: facade, seen: make(map[string]struct{})}
}

// ResolveOnce 解析链接中的分享购物车。成功解码后返回导入预览和
// 去掉分享参数的地址供调用方回写（刷新、回退不会重复导入）；
// 链接不带参数、载荷为空车、解码失败或 token 已处理过时预览为
// nil，地址原样返回。
func (l *LinkImporter) ResolveOnce(rawURL string) (*ImportPreview, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, rawURL
	}
	query := parsed.Query()
	token := query.Get(constants.ShareLinkParam)
	if token == "" {
		return nil, rawURL
	}

	l.mu.Lock()
	if _, dup := l.seen[token]; dup {
		l.mu.Unlock()
		return nil, rawURL
	}
	l.seen[token] = struct{}{}
	l.mu.Unlock()

	payload := l.facade.ResolveShareLink(rawURL)
	if payload == nil || len(payload.Items) == 0 {
		return nil, rawURL
	}

	query.Del(constants.ShareLinkParam)
	parsed.RawQuery = query.Encode()
	return NewImportPreview(payload), parsed.String()
}
