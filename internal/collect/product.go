package collect

import (
	"review-scraper/internal/fetch"
	"review-scraper/internal/review"
)

// ForProduct 以 HTTP 抓取器为某个商品构造 Runner；商品代码由调用方显式传入。
func ForProduct(cl *fetch.Client, parser *review.Parser, baseURL, code string, maxPages int) *Runner {
	return New(fetch.NewPageFetcher(cl, baseURL, code), parser, Options{ProductCode: code, MaxPages: maxPages})
}
