package review

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"review-scraper/internal/model"
	"review-scraper/internal/rules"
)

// Value 为单个字段的抽取结果：标量字段用 Text，列表字段用 List。
type Value struct {
	Text string
	List []string
}

// Strings 以列表形式返回结果，标量非空时视为单元素列表；从不返回 nil。
func (v Value) Strings() []string {
	if v.List != nil {
		return v.List
	}
	if v.Text != "" {
		return []string{v.Text}
	}
	return []string{}
}

// ExtractField 在评论卡片 scope 内按规则抽取一个字段。
// 锚点缺失时返回 false，此时 Value 已填入规则的占位值（列表为空切片）。
func ExtractField(scope *goquery.Selection, f rules.Field) (Value, bool) {
	if f.Label != "" {
		return extractLabeled(scope, f)
	}
	if f.List {
		list := []string{}
		found := false
		for _, sel := range alternatives(f.Select) {
			scope.Find(sel).Each(func(_ int, s *goquery.Selection) {
				list = append(list, strings.TrimSpace(s.Text()))
				found = true
			})
			if found {
				break
			}
		}
		return Value{List: list}, found
	}
	if v, ok := getVal(scope, f.Select); ok {
		return Value{Text: v}, true
	}
	return Value{Text: f.Default}, false
}

// extractLabeled 处理 "标题节点 + 后续兄弟内容" 结构，例如：
// <div class="review-feature__title">Zalety</div><div>fast</div><div>cheap</div>
func extractLabeled(scope *goquery.Selection, f rules.Field) (Value, bool) {
	absent := Value{Text: f.Default}
	if f.List {
		absent = Value{List: []string{}}
	}
	sel := f.Select
	if at := strings.Index(sel, "@"); at != -1 {
		sel = sel[:at]
	}
	label := scope.Find(strings.TrimSpace(sel)).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return strings.TrimSpace(s.Text()) == f.Label
	}).First()
	if label.Length() == 0 {
		return absent, false
	}
	var sibs *goquery.Selection
	if f.Siblings == "" {
		sibs = label.NextAll()
	} else {
		sibs = label.NextAllFiltered(f.Siblings)
	}
	if f.List {
		list := make([]string, 0, sibs.Length())
		sibs.Each(func(_ int, s *goquery.Selection) {
			list = append(list, strings.TrimSpace(s.Text()))
		})
		return Value{List: list}, true
	}
	if sibs.Length() == 0 {
		return absent, false
	}
	return Value{Text: strings.TrimSpace(sibs.First().Text())}, true
}

// assign 将字段值写入记录对应属性。
func assign(r *model.Review, name string, v Value) {
	switch name {
	case rules.FieldID:
		r.ID = v.Text
	case rules.FieldAuthor:
		r.Author = v.Text
	case rules.FieldRecommendation:
		r.Recommendation = v.Text
	case rules.FieldStars:
		r.Stars = v.Text
	case rules.FieldContent:
		r.Content = v.Text
	case rules.FieldPros:
		r.Pros = v.Strings()
	case rules.FieldCons:
		r.Cons = v.Strings()
	case rules.FieldHelpful:
		r.HelpfulCount = v.Text
	case rules.FieldUnhelpful:
		r.UnhelpfulCount = v.Text
	case rules.FieldPublishDate:
		r.PublishDate = v.Text
	case rules.FieldPurchaseDate:
		r.PurchaseDate = v.Text
	}
}

// alternatives 拆分 "||" 回退表达式。
func alternatives(expr string) []string {
	var out []string
	for _, p := range strings.Split(expr, "||") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getVal 依次尝试 "||" 连接的候选表达式，返回第一个命中的值。
func getVal(scope *goquery.Selection, expr string) (string, bool) {
	for _, p := range alternatives(expr) {
		if v, ok := getValSingle(scope, p); ok {
			return v, true
		}
	}
	return "", false
}

// getValSingle 解析单个表达式：文本或属性读取；节点或属性不存在时返回 false。
func getValSingle(scope *goquery.Selection, expr string) (string, bool) {
	if expr == "." {
		return strings.TrimSpace(scope.Text()), true
	}
	if at := strings.Index(expr, "@"); at != -1 {
		sel := strings.TrimSpace(expr[:at])
		attr := strings.TrimSpace(expr[at+1:])
		el := scope
		if sel != "" {
			el = scope.Find(sel).First()
		}
		if el.Length() == 0 {
			return "", false
		}
		val, ok := el.Attr(attr)
		return strings.TrimSpace(val), ok
	}
	el := scope.Find(expr).First()
	if el.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(el.Text()), true
}
