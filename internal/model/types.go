// 包 model 定义评论抓取的数据模型（评论/商品/统计摘要）。
package model

import (
	"regexp"
	"strconv"
	"strings"
)

// 缺省占位值：可选字段结构缺失时使用。
const (
	NoRecommendation = "No recommendation"
	NoDate           = "No date"
	ZeroVotes        = "0"
)

// Review 为单条用户评论，字段均保留页面原始文本。
type Review struct {
	ID             string   `json:"id"`
	Author         string   `json:"author"`
	Recommendation string   `json:"recommendation"`
	Stars          string   `json:"stars"`
	Content        string   `json:"content"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	HelpfulCount   string   `json:"helpful_count"`
	UnhelpfulCount string   `json:"unhelpful_count"`
	PublishDate    string   `json:"publish_date"`
	PurchaseDate   string   `json:"purchase_date"`
}

// codePattern 为合法商品代码：只含字母、数字、下划线与连字符（同时用作导出文件名）。
var codePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidCode 判断商品代码是否合法。
func ValidCode(code string) bool { return codePattern.MatchString(code) }

// ratingPattern 只接受十进制数字（可带逗号或点小数），排除 NaN/Inf/指数/十六进制写法。
var ratingPattern = regexp.MustCompile(`^\d+([,.]\d+)?$`)

// Rating 将 Stars 解析为数值：
// - "X/Y" 取分子（分子本身可为逗号小数，如 "4,5/5"）
// - 否则按逗号小数解析（"4,5" -> 4.5）
// 两种规则都不匹配时返回 false。
func (r Review) Rating() (float64, bool) {
	s := strings.TrimSpace(r.Stars)
	if s == "" {
		return 0, false
	}
	if i := strings.Index(s, "/"); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if !ratingPattern.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Product 表示被抓取的商品，评论只追加不删除。
type Product struct {
	Code    string   `json:"code"`
	Name    string   `json:"name"`
	Price   string   `json:"price"`
	Reviews []Review `json:"reviews"`
}

// AddReview 追加一条评论。
func (p *Product) AddReview(r Review) {
	p.Reviews = append(p.Reviews, r)
}

// AverageRating 仅基于已挂载评论计算平均分，无法解析的星级不计入分母。
func (p *Product) AverageRating() float64 {
	var sum float64
	n := 0
	for _, r := range p.Reviews {
		if v, ok := r.Rating(); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Count 为某个取值及其出现次数（用于优缺点排行）。
type Count struct {
	Value string `json:"value"`
	N     int    `json:"count"`
}

// Summary 为一次抓取结果的统计摘要。
type Summary struct {
	ProductCode   string  `json:"product_code"`
	Reviews       int     `json:"reviews"`
	AverageRating float64 `json:"average_rating"`
	Positive      int     `json:"positive"`
	Negative      int     `json:"negative"`
	AvgHelpful    float64 `json:"avg_helpful"`
	AvgUnhelpful  float64 `json:"avg_unhelpful"`
	TopPros       []Count `json:"top_pros"`
	TopCons       []Count `json:"top_cons"`
}
