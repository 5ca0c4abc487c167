package cartshare

import (
	"github.com/brewcart/internal/models"
)

// CartItem 购物车行项：商品目录条目加购买数量。
// 约束：数量 >= 1，数量归零的行项应从购物车移除而不是保留。
type CartItem struct {
	ID          string       `json:"id"`                    // 商品标识
	Name        string       `json:"name"`                  // 展示名称
	Description string       `json:"description,omitempty"` // 商品描述
	Price       models.Money `json:"price"`                 // 单价（非负）
	Rating      float64      `json:"rating,omitempty"`      // 评分
	Image       string       `json:"image,omitempty"`       // 图片地址
	Category    string       `json:"category,omitempty"`    // 分类
	Featured    bool         `json:"featured,omitempty"`    // 是否推荐
	Quantity    int          `json:"quantity"`              // 数量
}

// SharedCartPayload 分享购物车载荷：有序行项加分享时间与可选署名
type SharedCartPayload struct {
	Items    []CartItem `json:"items"`
	SharedAt int64      `json:"sharedAt"`          // 分享时间（Unix 毫秒）
	SharedBy string     `json:"sharedBy,omitempty"` // 分享者（可选）
}
