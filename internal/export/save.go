package export

import (
	"context"
	"fmt"
	"os"

	"review-scraper/internal/config"
	"review-scraper/internal/model"
)

// ProductSaver 为 SQLite 快照写入接口（store.SQLite 实现）。
type ProductSaver interface {
	SaveProduct(ctx context.Context, p model.Product) error
}

// Save 按 formats 将商品评论写入 dir 下的文件或数据库，返回写入目标列表。
// formats 为 sqlite 时 db 不能为空。
func Save(ctx context.Context, p model.Product, formats []string, dir string, db ProductSaver) ([]string, error) {
	var written []string
	if len(formats) == 0 {
		return written, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return written, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	for _, f := range formats {
		switch f {
		case config.FormatJSON:
			path := Path(dir, p.Code, "json")
			if err := ToJSON(path, p.Reviews); err != nil {
				return written, err
			}
			written = append(written, path)
		case config.FormatCSV:
			path := Path(dir, p.Code, "csv")
			if err := ToCSV(path, p.Reviews); err != nil {
				return written, err
			}
			written = append(written, path)
		case config.FormatSQLite:
			if db == nil {
				return written, fmt.Errorf("sqlite export requested but no database is open")
			}
			if err := db.SaveProduct(ctx, p); err != nil {
				return written, fmt.Errorf("save product %s: %w", p.Code, err)
			}
			written = append(written, "sqlite:"+p.Code)
		default:
			return written, fmt.Errorf("unsupported format: %s", f)
		}
	}
	return written, nil
}
