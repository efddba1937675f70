package fetch

import (
	"context"
	"fmt"

	"review-scraper/internal/logx"
)

// PageFetcher 按页码抓取某个商品的评论页：{baseURL}{code}/opinie-{page}。
type PageFetcher struct {
	client  *Client
	baseURL string
	code    string
}

// NewPageFetcher 绑定基础地址与商品代码。
func NewPageFetcher(cl *Client, baseURL, productCode string) *PageFetcher {
	return &PageFetcher{client: cl, baseURL: baseURL, code: productCode}
}

// URL 返回第 page 页（从 1 开始）的地址。
func (p *PageFetcher) URL(page int) string {
	return fmt.Sprintf("%s%s/opinie-%d", p.baseURL, p.code, page)
}

// FetchPage 返回页面 HTML；失败时记录警告并返回错误（调用方据此停止）。
func (p *PageFetcher) FetchPage(ctx context.Context, page int) (string, error) {
	u := p.URL(page)
	html, err := p.client.GetText(ctx, u)
	if err != nil {
		logx.Warnf("抓取评论页失败：%s 错误=%v", u, err)
		return "", fmt.Errorf("fetch page %d: %w", page, err)
	}
	return html, nil
}
