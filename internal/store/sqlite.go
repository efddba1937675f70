// 包 store 提供评论快照存储（SQLite），包含表迁移/写入/查询/清理等操作。
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"review-scraper/internal/model"
)

// ErrNotFound 表示库中没有该商品的快照。
var ErrNotFound = errors.New("product not found")

// SQLite 封装 *sql.DB，基于 modernc.org/sqlite（纯 Go 实现）。
type SQLite struct {
	db *sql.DB
}

// ProductInfo 为商品快照概要（不含评论）。
type ProductInfo struct {
	Code      string
	Name      string
	Price     string
	Reviews   int
	ScrapedAt time.Time
}

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// migrate 执行建表语句，保持幂等。
// 评论以 (product_code, position) 为键，同一 id 跨页重复时保留多行。
func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
            code TEXT PRIMARY KEY,
            name TEXT,
            price TEXT,
            scraped_at TIMESTAMP
        );`,
		`CREATE TABLE IF NOT EXISTS reviews (
            product_code TEXT NOT NULL,
            position INTEGER NOT NULL,
            id TEXT,
            author TEXT,
            recommendation TEXT,
            stars TEXT,
            content TEXT,
            pros TEXT,
            cons TEXT,
            helpful_count TEXT,
            unhelpful_count TEXT,
            publish_date TEXT,
            purchase_date TEXT,
            PRIMARY KEY (product_code, position)
        );`,
	}
	for _, q := range stmts {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("exec migrate: %w", err)
		}
	}
	return nil
}

// SaveProduct 在一个事务内用新快照替换该商品的旧快照。
func (s *SQLite) SaveProduct(ctx context.Context, p model.Product) error {
	if p.Code == "" {
		return errors.New("product.code required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO products(code, name, price, scraped_at) VALUES(?,?,?,?)
        ON CONFLICT(code) DO UPDATE SET name=excluded.name, price=excluded.price, scraped_at=excluded.scraped_at`,
		p.Code, p.Name, p.Price, time.Now()); err != nil {
		return fmt.Errorf("upsert product %s: %w", p.Code, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE product_code = ?`, p.Code); err != nil {
		return fmt.Errorf("delete reviews %s: %w", p.Code, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO reviews(product_code, position, id, author, recommendation, stars, content,
        pros, cons, helpful_count, unhelpful_count, publish_date, purchase_date) VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert review: %w", err)
	}
	defer stmt.Close()
	for i, r := range p.Reviews {
		pros, err := encodeList(r.Pros)
		if err != nil {
			return err
		}
		cons, err := encodeList(r.Cons)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, p.Code, i, r.ID, r.Author, r.Recommendation, r.Stars, r.Content,
			pros, cons, r.HelpfulCount, r.UnhelpfulCount, r.PublishDate, r.PurchaseDate); err != nil {
			return fmt.Errorf("insert review %s/%s: %w", p.Code, r.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadProduct 读取商品快照，评论按原始顺序返回。
func (s *SQLite) LoadProduct(ctx context.Context, code string) (model.Product, error) {
	p := model.Product{Code: code}
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(name,''), COALESCE(price,'') FROM products WHERE code = ?`, code).
		Scan(&p.Name, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("%w: %s", ErrNotFound, code)
	}
	if err != nil {
		return p, fmt.Errorf("query product %s: %w", code, err)
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, author, recommendation, stars, content, pros, cons,
        helpful_count, unhelpful_count, publish_date, purchase_date
        FROM reviews WHERE product_code = ? ORDER BY position`, code)
	if err != nil {
		return p, fmt.Errorf("query reviews %s: %w", code, err)
	}
	defer rows.Close()
	p.Reviews = []model.Review{}
	for rows.Next() {
		var r model.Review
		var pros, cons string
		if err := rows.Scan(&r.ID, &r.Author, &r.Recommendation, &r.Stars, &r.Content, &pros, &cons,
			&r.HelpfulCount, &r.UnhelpfulCount, &r.PublishDate, &r.PurchaseDate); err != nil {
			return p, fmt.Errorf("scan reviews: %w", err)
		}
		if r.Pros, err = decodeList(pros); err != nil {
			return p, err
		}
		if r.Cons, err = decodeList(cons); err != nil {
			return p, err
		}
		p.AddReview(r)
	}
	if err := rows.Err(); err != nil {
		return p, fmt.Errorf("iterate reviews: %w", err)
	}
	return p, nil
}

// ListProducts 返回全部商品快照概要，按抓取时间倒序。
func (s *SQLite) ListProducts(ctx context.Context) ([]ProductInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT p.code, COALESCE(p.name,''), COALESCE(p.price,''), p.scraped_at,
        (SELECT COUNT(1) FROM reviews r WHERE r.product_code = p.code)
        FROM products p ORDER BY p.scraped_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	var out []ProductInfo
	for rows.Next() {
		var pi ProductInfo
		var scrapedAt sql.NullTime
		if err := rows.Scan(&pi.Code, &pi.Name, &pi.Price, &scrapedAt, &pi.Reviews); err != nil {
			return nil, fmt.Errorf("scan products: %w", err)
		}
		if scrapedAt.Valid {
			pi.ScrapedAt = scrapedAt.Time
		}
		out = append(out, pi)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

// DeleteProduct 在同一事务内删除商品及其评论；商品不存在时返回 ErrNotFound。
func (s *SQLite) DeleteProduct(ctx context.Context, code string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE product_code = ?`, code); err != nil {
		return fmt.Errorf("delete reviews %s: %w", code, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM products WHERE code = ?`, code)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", code, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", code, ErrNotFound)
	}
	return tx.Commit()
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(s string) ([]string, error) {
	out := []string{}
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return out, nil
}
