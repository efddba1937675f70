// 包 fetch 封装 HTTP 客户端（代理/超时）与评论分页抓取。
// 每次调用只发起一次请求，不做重试。
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// ErrStatus 表示服务端返回了非 200 状态码。
var ErrStatus = errors.New("unexpected http status")

// ErrTooLarge 表示响应体超过 MaxBodySize，页面不完整时不交给解析器。
var ErrTooLarge = errors.New("response body too large")

// MaxBodySize 为单个页面的读取上限。
const MaxBodySize = 8 << 20

// Client 为带固定 User-Agent 的 HTTP 客户端。
type Client struct {
	http      *http.Client
	userAgent string
}

// Options 为客户端构造参数。
type Options struct {
	ProxyHTTP  string
	ProxyHTTPS string
	Timeout    time.Duration
	UserAgent  string
}

// New 创建客户端，支持 http/https 代理与基础超时配置。
func New(opts Options) (*Client, error) {
	var proxyHTTP, proxyHTTPS *url.URL
	var err error
	if opts.ProxyHTTP != "" {
		if proxyHTTP, err = url.Parse(opts.ProxyHTTP); err != nil {
			return nil, fmt.Errorf("parse http proxy: %w", err)
		}
	}
	if opts.ProxyHTTPS != "" {
		if proxyHTTPS, err = url.Parse(opts.ProxyHTTPS); err != nil {
			return nil, fmt.Errorf("parse https proxy: %w", err)
		}
	}
	transport := &http.Transport{
		Proxy: func(req *http.Request) (*url.URL, error) {
			if req.URL.Scheme == "https" && proxyHTTPS != nil {
				return proxyHTTPS, nil
			}
			if req.URL.Scheme == "http" && proxyHTTP != nil {
				return proxyHTTP, nil
			}
			return http.ProxyFromEnvironment(req)
		},
		DialContext:           (&net.Dialer{Timeout: 10 * time.Second}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 25 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0"
	}
	return &Client{
		http:      &http.Client{Transport: transport, Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
	}, nil
}

// Get 发起单次 GET，仅 200 视为成功；其他状态返回包装了 ErrStatus 的错误。
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrStatus, resp.Status)
	}
	return resp, nil
}

// GetText 请求并读取完整响应体；超过 MaxBodySize 时返回 ErrTooLarge。
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return "", fmt.Errorf("read body %s: %w", url, err)
	}
	if len(b) > MaxBodySize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrTooLarge, url, MaxBodySize)
	}
	return string(b), nil
}
