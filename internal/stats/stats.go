// 包 stats 提供评论集合上的统计：平均分、推荐占比、投票均值、高频优缺点。
// 所有函数均为纯函数，与评论顺序无关（排行并列时按首次出现顺序）。
package stats

import (
	"sort"
	"strconv"
	"strings"

	"review-scraper/internal/model"
)

// Recommended 为推荐标记：推荐文本包含该子串即视为推荐（区分大小写，"Nie polecam" 不匹配）。
const Recommended = "Polecam"

// TopN 为优缺点排行默认条数。
const TopN = 5

// AverageRating 计算平均星级；无法解析的星级既不计入总和也不计入分母。
func AverageRating(rs []model.Review) float64 {
	var sum float64
	n := 0
	for _, r := range rs {
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

// Recommendations 统计推荐与非推荐数量。
// 非推荐包含“明确不推荐”和“未给出推荐”两种情况，二者不做区分。
func Recommendations(rs []model.Review) (positive, negative int) {
	for _, r := range rs {
		if strings.Contains(r.Recommendation, Recommended) {
			positive++
		}
	}
	return positive, len(rs) - positive
}

// Votes 返回有用/无用票数的算术平均；非整数值不计入对应均值。
func Votes(rs []model.Review) (helpful, unhelpful float64) {
	return meanInt(rs, func(r model.Review) string { return r.HelpfulCount }),
		meanInt(rs, func(r model.Review) string { return r.UnhelpfulCount })
}

func meanInt(rs []model.Review, get func(model.Review) string) float64 {
	sum, n := 0, 0
	for _, r := range rs {
		v, err := strconv.Atoi(strings.TrimSpace(get(r)))
		if err != nil {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0
	}
	return float64(sum) / float64(n)
}

// TopPros 返回出现最多的 5 个优点。
func TopPros(rs []model.Review) []model.Count {
	var all []string
	for _, r := range rs {
		all = append(all, r.Pros...)
	}
	return Top(all, TopN)
}

// TopCons 返回出现最多的 5 个缺点。
func TopCons(rs []model.Review) []model.Count {
	var all []string
	for _, r := range rs {
		all = append(all, r.Cons...)
	}
	return Top(all, TopN)
}

// Top 统计各取值出现次数，按次数降序返回前 n 个；次数相同按首次出现顺序。
func Top(values []string, n int) []model.Count {
	idx := map[string]int{}
	counts := []model.Count{}
	for _, v := range values {
		if i, ok := idx[v]; ok {
			counts[i].N++
			continue
		}
		idx[v] = len(counts)
		counts = append(counts, model.Count{Value: v, N: 1})
	}
	// counts 已按首次出现排序，稳定排序保留并列顺序
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].N > counts[j].N })
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// Summarize 汇总全部统计。
func Summarize(productCode string, rs []model.Review) model.Summary {
	pos, neg := Recommendations(rs)
	helpful, unhelpful := Votes(rs)
	return model.Summary{
		ProductCode:   productCode,
		Reviews:       len(rs),
		AverageRating: AverageRating(rs),
		Positive:      pos,
		Negative:      neg,
		AvgHelpful:    helpful,
		AvgUnhelpful:  unhelpful,
		TopPros:       TopPros(rs),
		TopCons:       TopCons(rs),
	}
}
