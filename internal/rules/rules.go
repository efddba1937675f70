// 包 rules 负责加载并提供评论页解析规则（rules.yaml），
// 以预设名（如 ceneo）组织 CSS 选择器；每个评论字段一条抽取规则。
package rules

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 评论字段名，与导出 JSON 的键一致。
const (
	FieldID             = "id"
	FieldAuthor         = "author"
	FieldRecommendation = "recommendation"
	FieldStars          = "stars"
	FieldContent        = "content"
	FieldPros           = "pros"
	FieldCons           = "cons"
	FieldHelpful        = "helpful_count"
	FieldUnhelpful      = "unhelpful_count"
	FieldPublishDate    = "publish_date"
	FieldPurchaseDate   = "purchase_date"
)

// FieldNames 为全部字段，按导出列顺序。
var FieldNames = []string{
	FieldID, FieldAuthor, FieldRecommendation, FieldStars, FieldContent,
	FieldPros, FieldCons, FieldHelpful, FieldUnhelpful, FieldPublishDate, FieldPurchaseDate,
}

// Rules 表示全部规则集合：键为预设名，值为具体规则。
type Rules struct {
	Presets map[string]Preset `yaml:",inline"`
}

// Preset 为单个站点预设。
type Preset struct {
	ReviewPage *ReviewPage `yaml:"review_page"`
}

// ReviewPage 描述评论页的选择器：
// - item：每条评论的容器
// - pagination：分页控件，数量即总页数
// - product_name/product_price：商品信息（可选）
// - fields：字段名 -> 抽取规则
type ReviewPage struct {
	Item         string           `yaml:"item"`
	Pagination   string           `yaml:"pagination"`
	ProductName  string           `yaml:"product_name"`
	ProductPrice string           `yaml:"product_price"`
	Fields       map[string]Field `yaml:"fields"`
}

// Field 为单个字段的抽取规则。
// 表达式语法：
// - 文本：".name" 或 "."（取当前项文本）
// - 属性："button.vote-yes@data-total-vote" / "@data-entry-id"（当前项属性）
// - 回退：使用 "||" 连接多个候选，按先后尝试
// 设置 Label 时，Select 定位标题节点，取文本等于 Label 的那个，
// 再取其后续兄弟节点中匹配 Siblings 的元素（List 为 true 取全部，否则取第一个）。
type Field struct {
	Select   string `yaml:"select"`
	Label    string `yaml:"label"`
	Siblings string `yaml:"siblings"`
	List     bool   `yaml:"list"`
	Default  string `yaml:"default"`
	Required bool   `yaml:"required"`
}

// Ceneo 为内置预设，对应 ceneo.pl 的评论卡片结构。
func Ceneo() ReviewPage {
	return ReviewPage{
		Item:         "div.user-post.user-post__card.js_product-review",
		Pagination:   "a.pagination__item",
		ProductName:  "h1.product-top__product-info__name||h1",
		ProductPrice: "span.price-format span.value||span.price",
		Fields: map[string]Field{
			FieldID:             {Select: "@data-entry-id", Required: true},
			FieldAuthor:         {Select: "span.user-post__author-name", Required: true},
			FieldRecommendation: {Select: "span.user-post__author-recommendation", Default: "No recommendation"},
			FieldStars:          {Select: "span.user-post__score-count"},
			FieldContent:        {Select: "div.user-post__text"},
			FieldPros:           {Select: "div.review-feature__title", Label: "Zalety", Siblings: "div", List: true},
			FieldCons:           {Select: "div.review-feature__title", Label: "Wady", Siblings: "div", List: true},
			FieldHelpful:        {Select: "button.vote-yes@data-total-vote", Default: "0"},
			FieldUnhelpful:      {Select: "button.vote-no@data-total-vote", Default: "0"},
			FieldPublishDate:    {Select: "span.user-post__published", Required: true},
			FieldPurchaseDate:   {Select: "span.user-post__published", Label: "Opinia dodana po zakupie", Siblings: "time", Default: "No date"},
		},
	}
}

func Load(path string) (*Rules, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	var r Rules
	if err := yaml.Unmarshal(b, &r.Presets); err != nil {
		return nil, fmt.Errorf("unmarshal rules %s: %w", path, err)
	}
	return &r, nil
}

// GetPreset 按名称获取预设（不区分大小写），不存在时回退到 "ceneo"。
func (r *Rules) GetPreset(name string) (Preset, bool) {
	if r == nil || len(r.Presets) == 0 {
		return Preset{}, false
	}
	if name == "" {
		name = "ceneo"
	}
	if p, ok := r.Presets[name]; ok {
		return p, true
	}
	lower := strings.ToLower(name)
	for k, v := range r.Presets {
		if strings.ToLower(k) == lower {
			return v, true
		}
	}
	if p, ok := r.Presets["ceneo"]; ok {
		return p, true
	}
	return Preset{}, false
}

// Resolve 返回最终生效的评论页规则：以内置 Ceneo 为底，
// 用预设中非空的选择器与字段规则逐项覆盖。r 为 nil 时即内置规则。
func (r *Rules) Resolve(name string) ReviewPage {
	base := Ceneo()
	p, ok := r.GetPreset(name)
	if !ok || p.ReviewPage == nil {
		return base
	}
	over := p.ReviewPage
	if over.Item != "" {
		base.Item = over.Item
	}
	if over.Pagination != "" {
		base.Pagination = over.Pagination
	}
	if over.ProductName != "" {
		base.ProductName = over.ProductName
	}
	if over.ProductPrice != "" {
		base.ProductPrice = over.ProductPrice
	}
	for k, v := range over.Fields {
		base.Fields[k] = v
	}
	return base
}
