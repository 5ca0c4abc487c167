package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/brewcart/internal/cartshare"
	"github.com/brewcart/internal/config"
	"github.com/brewcart/internal/constants"
	"github.com/brewcart/internal/localstore"
	"github.com/brewcart/internal/logger"
)

const defaultRequestTimeout = 10 * time.Second

// Facade 购物车分享门面：生成分享链接、申请/解析分享码。
// 服务端路径失败时静默降级到本地存储，调用方无法也不需要区分
// 结果来自哪条路径，只关心整体成功与否。
type Facade struct {
	baseURL string // 分享服务地址（…/api）
	origin  string // 分享链接使用的站点地址
	http    *http.Client
	local   localstore.Store
}

// Options 门面配置
type Options struct {
	BaseURL    string
	Origin     string
	HTTPClient *http.Client
	Local      localstore.Store
}

// New 创建分享门面
func New(opts Options) *Facade {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultRequestTimeout}
	}
	local := opts.Local
	if local == nil {
		local = localstore.NewMemoryStore()
	}
	origin := strings.TrimRight(opts.Origin, "/")
	if origin == "" {
		origin = strings.TrimRight(opts.BaseURL, "/")
		origin = strings.TrimSuffix(origin, "/api")
	}
	return &Facade{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		origin:  origin,
		http:    httpClient,
		local:   local,
	}
}

// FromConfig 按应用配置创建分享门面：分享链接指向公开站点地址，
// 本地降级存储按配置落文件（路径为空则仅内存）。
func FromConfig(cfg *config.Config) (*Facade, error) {
	base := strings.TrimRight(cfg.Share.PublicBaseURL, "/")
	local, err := localstore.Open(cfg.Share.LocalStorePath)
	if err != nil {
		return nil, err
	}
	timeout := defaultRequestTimeout
	if cfg.Share.RequestTimeoutSecs > 0 {
		timeout = time.Duration(cfg.Share.RequestTimeoutSecs) * time.Second
	}
	return New(Options{
		BaseURL:    base + "/api",
		Origin:     base,
		HTTPClient: &http.Client{Timeout: timeout},
		Local:      local,
	}), nil
}

// BuildShareableLink 生成携带编码购物车的分享链接。纯计算，无网络。
func (f *Facade) BuildShareableLink(items []cartshare.CartItem) (string, error) {
	token, err := cartshare.Encode(items)
	if err != nil {
		return "", err
	}
	return f.origin + "?" + constants.ShareLinkParam + "=" + token, nil
}

// RequestShareCode 申请短分享码。优先保存到服务端；任何网络失败
// 或非 200 响应都降级为本地码：截取 token 前缀做码，映射存入本地
// 存储。两条路径返回类型相同，对调用方透明。
func (f *Facade) RequestShareCode(ctx context.Context, items []cartshare.CartItem) (string, error) {
	token, err := cartshare.Encode(items)
	if err != nil {
		return "", err
	}

	if code, ok := f.saveRemote(ctx, token); ok {
		return code, nil
	}

	code := cartshare.DeriveLocalCode(token)
	if err := f.local.Set(cartshare.LocalStoreKey(code), token); err != nil {
		return "", err
	}
	return code, nil
}

// ResolveShareCode 解析分享码为购物车载荷。先查服务端，失败或未
// 命中再查本地存储；两条路径都落空才返回 nil。
func (f *Facade) ResolveShareCode(ctx context.Context, code string) *cartshare.SharedCartPayload {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil
	}

	if encoded, ok := f.fetchRemote(ctx, normalized); ok {
		if payload := cartshare.Decode(encoded); payload != nil {
			return payload
		}
	}

	encoded, ok := f.local.Get(cartshare.LocalStoreKey(normalized))
	if !ok {
		return nil
	}
	return cartshare.Decode(encoded)
}

// ResolveShareLink 从分享链接中提取 token 并解码。无网络访问；
// 参数缺失或解码失败返回 nil。
func (f *Facade) ResolveShareLink(rawURL string) *cartshare.SharedCartPayload {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	token := parsed.Query().Get(constants.ShareLinkParam)
	if token == "" {
		return nil
	}
	return cartshare.Decode(token)
}

// saveRemote 向服务端保存编码载荷，返回分享码。失败只记日志，
// 由调用方走本地降级。
func (f *Facade) saveRemote(ctx context.Context, token string) (string, bool) {
	body, err := json.Marshal(map[string]string{"encoded": token})
	if err != nil {
		return "", false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.baseURL+"/shared-cart/", bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		logger.Warnw("share_code_save_remote_failed", "error", err, "fallback", "local")
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		logger.Warnw("share_code_save_remote_rejected", "status", resp.StatusCode, "fallback", "local")
		return "", false
	}

	var result struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.Code == "" {
		logger.Warnw("share_code_save_remote_bad_response", "error", err, "fallback", "local")
		return "", false
	}
	return result.Code, true
}

// fetchRemote 从服务端取回编码载荷
func (f *Facade) fetchRemote(ctx context.Context, code string) (string, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/shared-cart/"+url.PathEscape(code), nil)
	if err != nil {
		return "", false
	}

	resp, err := f.http.Do(req)
	if err != nil {
		logger.Warnw("share_code_fetch_remote_failed", "error", err, "fallback", "local")
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false
	}
	var result struct {
		Encoded string `json:"encoded"`
	}
	if err := json.Unmarshal(data, &result); err != nil || result.Encoded == "" {
		return "", false
	}
	return result.Encoded, true
}
