// 包 review 提供评论页解析：
// - 依据 rules.ReviewPage 的逐字段规则从评论卡片抽取记录
// - 可选字段缺失时回退为占位值，必填字段缺失时跳过该卡片
// - 统计分页控件数量得到总页数
package review

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"review-scraper/internal/logx"
	"review-scraper/internal/model"
	"review-scraper/internal/rules"
)

// Parser 按给定规则解析评论页，无内部状态，可复用。
type Parser struct {
	page rules.ReviewPage
}

func NewParser(page rules.ReviewPage) *Parser {
	return &Parser{page: page}
}

// Parse 返回页面中按文档顺序排列的评论；没有评论卡片时返回空切片。
func (p *Parser) Parse(html string) ([]model.Review, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse review page html: %w", err)
	}
	return p.ParseDocument(doc), nil
}

// ParseDocument 与 Parse 相同，但接收已解析的文档。
func (p *Parser) ParseDocument(doc *goquery.Document) []model.Review {
	out := []model.Review{}
	doc.Find(p.page.Item).Each(func(i int, s *goquery.Selection) {
		r, missing := p.record(s)
		if missing != "" {
			logx.Debugf("跳过第 %d 条评论卡片：缺少必填字段 %s", i+1, missing)
			return
		}
		out = append(out, r)
	})
	return out
}

// record 从单个评论卡片构造记录，返回缺失的必填字段名（若有）。
func (p *Parser) record(block *goquery.Selection) (model.Review, string) {
	var r model.Review
	for _, name := range rules.FieldNames {
		rule := p.page.Fields[name]
		v, ok := ExtractField(block, rule)
		if !ok && rule.Required {
			return model.Review{}, name
		}
		assign(&r, name, v)
	}
	return r, ""
}

// CountPages 统计分页控件数量作为总页数；没有分页控件时为 1。
func (p *Parser) CountPages(html string) int {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return 1
	}
	return p.CountPagesDocument(doc)
}

func (p *Parser) CountPagesDocument(doc *goquery.Document) int {
	if p.page.Pagination == "" {
		return 1
	}
	if n := doc.Find(p.page.Pagination).Length(); n > 0 {
		return n
	}
	return 1
}

// ParseProduct 抽取商品名称与价格（均可缺失）。
func (p *Parser) ParseProduct(html string) model.Product {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return model.Product{}
	}
	return p.ParseProductDocument(doc)
}

func (p *Parser) ParseProductDocument(doc *goquery.Document) model.Product {
	root := doc.Selection
	name, _ := getVal(root, p.page.ProductName)
	price, _ := getVal(root, p.page.ProductPrice)
	return model.Product{Name: collapse(name), Price: collapse(price)}
}

// collapse 合并连续空白（商品名/价格常跨多个文本节点）。
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
