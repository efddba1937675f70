// 包 collect 负责评论抓取主流程：
// - 抓取第 1 页，按分页控件确定总页数与商品信息
// - 按页码顺序逐页抓取并解析，累积评论
// - 遇到首个抓取失败或空页立即停止，保留已收集结果
package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"review-scraper/internal/logx"
	"review-scraper/internal/model"
	"review-scraper/internal/review"
)

// PageFetcher 按页码（从 1 开始）返回页面 HTML。
type PageFetcher interface {
	FetchPage(ctx context.Context, page int) (string, error)
}

// Outcome 为一次收集的结束原因。
type Outcome string

const (
	// OutcomeComplete 所有发现的页面均已处理。
	OutcomeComplete Outcome = "complete"
	// OutcomeEmptyPage 某页抓取成功但没有评论。
	OutcomeEmptyPage Outcome = "empty_page"
	// OutcomeFetchFailed 某页抓取失败（非 200、网络错误或取消）。
	OutcomeFetchFailed Outcome = "fetch_failed"
)

// Result 为收集结果。
// 注意：EmptyPage 与 FetchFailed 都会终止收集，二者不区分“分页结束”与“临时错误”。
type Result struct {
	Product    model.Product
	Reviews    []model.Review
	TotalPages int // 分页控件给出的页数（已受 MaxPages 限制）
	Pages      int // 成功解析出评论的页数
	StoppedAt  int // 触发停止的页码；完整结束时为 0
	Outcome    Outcome
	Err        error
}

// Options 为 Runner 参数。
type Options struct {
	ProductCode string
	MaxPages    int // 0 表示不限制
}

// Runner 串行执行抓取与解析，不持有跨次运行的状态。
type Runner struct {
	pages  PageFetcher
	parser *review.Parser
	opts   Options
}

func New(pages PageFetcher, parser *review.Parser, opts Options) *Runner {
	return &Runner{pages: pages, parser: parser, opts: opts}
}

// PageCount 抓取第 1 页并统计分页控件；抓取失败或无分页时为 1。
func (r *Runner) PageCount(ctx context.Context) int {
	n, _ := r.discover(ctx)
	return n
}

func (r *Runner) discover(ctx context.Context) (int, model.Product) {
	prod := model.Product{Code: r.opts.ProductCode}
	html, err := r.pages.FetchPage(ctx, 1)
	if err != nil {
		return 1, prod
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1, prod
	}
	meta := r.parser.ParseProductDocument(doc)
	prod.Name, prod.Price = meta.Name, meta.Price
	return r.parser.CountPagesDocument(doc), prod
}

// CollectAll 依次抓取 1..N 页并返回累积的评论。
func (r *Runner) CollectAll(ctx context.Context) Result {
	total, prod := r.discover(ctx)
	if r.opts.MaxPages > 0 && total > r.opts.MaxPages {
		total = r.opts.MaxPages
	}
	res := Result{Product: prod, Reviews: []model.Review{}, TotalPages: total, Outcome: OutcomeComplete}
	logx.Infof("开始收集评论：商品=%s 页数=%d", r.opts.ProductCode, total)
	for page := 1; page <= total; page++ {
		logx.Infof("抓取第 %d/%d 页", page, total)
		html, err := r.pages.FetchPage(ctx, page)
		if err != nil {
			return res.stop(page, OutcomeFetchFailed, err)
		}
		reviews, err := r.parser.Parse(html)
		if err != nil {
			return res.stop(page, OutcomeEmptyPage, err)
		}
		if len(reviews) == 0 {
			logx.Infof("第 %d 页没有评论，停止收集", page)
			return res.stop(page, OutcomeEmptyPage, nil)
		}
		res.Reviews = append(res.Reviews, reviews...)
		res.Pages++
	}
	logx.Infof("收集完成：商品=%s 评论=%d 页数=%d", r.opts.ProductCode, len(res.Reviews), res.Pages)
	return res
}

func (res Result) stop(page int, o Outcome, err error) Result {
	res.StoppedAt = page
	res.Outcome = o
	if err != nil {
		res.Err = fmt.Errorf("page %d: %w", page, err)
	}
	logx.Infof("收集提前结束：原因=%s 页码=%d 已收集=%d", o, page, len(res.Reviews))
	return res
}

// ProductWithReviews 返回挂载了全部评论的商品。
func (res Result) ProductWithReviews() model.Product {
	p := res.Product
	p.Reviews = make([]model.Review, 0, len(res.Reviews))
	for _, rv := range res.Reviews {
		p.AddReview(rv)
	}
	return p
}
