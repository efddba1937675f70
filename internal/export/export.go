// 包 export 负责将评论写为 JSON/CSV 文件，以及读回 JSON。
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"review-scraper/internal/model"
	"review-scraper/internal/rules"
)

// ErrEmpty 表示没有可导出的评论（CSV 表头取自首条记录）。
var ErrEmpty = errors.New("no reviews to export")

// ListSep 为 CSV 中优缺点列表的分隔符。
const ListSep = "; "

// Path 返回导出文件路径：{dir}/{code}.{ext}。
func Path(dir, code, ext string) string {
	return filepath.Join(dir, code+"."+ext)
}

// ToJSON 将评论写为带缩进的 JSON 数组（保留非 ASCII 与 <>& 原样）。
func ToJSON(path string, reviews []model.Review) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteJSON(f, normalize(reviews)); err != nil {
		return fmt.Errorf("encode json to %s: %w", path, err)
	}
	return nil
}

// WriteJSON 以两空格缩进编码任意值，不转义 HTML 字符。
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// ReadJSON 读回 ToJSON 写出的文件。
func ReadJSON(path string) ([]model.Review, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var out []model.Review
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode json %s: %w", path, err)
	}
	return out, nil
}

// ToCSV 写出表头与每条评论一行，列表字段以 ListSep 连接。
func ToCSV(path string, reviews []model.Review) error {
	if len(reviews) == 0 {
		return ErrEmpty
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := WriteCSV(f, reviews); err != nil {
		return fmt.Errorf("write csv to %s: %w", path, err)
	}
	return nil
}

// WriteCSV 将评论写入 w。
func WriteCSV(w io.Writer, reviews []model.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rules.FieldNames); err != nil {
		return err
	}
	for _, r := range reviews {
		if err := cw.Write(Row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row 按 rules.FieldNames 的列顺序展开一条评论。
func Row(r model.Review) []string {
	return []string{
		r.ID, r.Author, r.Recommendation, r.Stars, r.Content,
		strings.Join(r.Pros, ListSep), strings.Join(r.Cons, ListSep),
		r.HelpfulCount, r.UnhelpfulCount, r.PublishDate, r.PurchaseDate,
	}
}

// normalize 将 nil 列表替换为空列表，导出为 [] 而非 null。
func normalize(in []model.Review) []model.Review {
	out := make([]model.Review, len(in))
	for i, r := range in {
		if r.Pros == nil {
			r.Pros = []string{}
		}
		if r.Cons == nil {
			r.Cons = []string{}
		}
		out[i] = r
	}
	return out
}
