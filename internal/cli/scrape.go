package cli

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"review-scraper/internal/collect"
	"review-scraper/internal/config"
	"review-scraper/internal/export"
	"review-scraper/internal/logx"
	"review-scraper/internal/model"
	"review-scraper/internal/stats"
	"review-scraper/internal/store"
)

type scrapeOpts struct {
	formats  []string
	outDir   string
	dbPath   string
	maxPages int
	show     bool
}

func newScrapeCmd(a *app) *cobra.Command {
	var o scrapeOpts
	cmd := &cobra.Command{
		Use:   "scrape <product-code>",
		Short: "Scrapes all review pages of a product and exports them.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkCode(args[0]); err != nil {
				return err
			}
			formats := a.cfg.Formats
			if cmd.Flags().Changed("format") {
				f, err := config.NormalizeFormats(o.formats)
				if err != nil {
					return err
				}
				formats = f
			}
			if !cmd.Flags().Changed("out") {
				o.outDir = a.cfg.OutputDir
			}
			if !cmd.Flags().Changed("max-pages") {
				o.maxPages = a.cfg.MaxPages
			}
			res := a.runner(args[0], o.maxPages).CollectAll(cmd.Context())
			return a.report(cmd.Context(), cmd.OutOrStdout(), res, formats, o)
		},
	}
	cmd.Flags().StringSliceVar(&o.formats, "format", nil, "export formats: json,csv,sqlite or none")
	cmd.Flags().StringVar(&o.outDir, "out", ".", "output directory for json/csv files")
	cmd.Flags().StringVar(&o.dbPath, "db", "", "sqlite database path (default DATABASE.dsn)")
	cmd.Flags().IntVar(&o.maxPages, "max-pages", 0, "upper bound on pages to fetch (0 = all)")
	cmd.Flags().BoolVar(&o.show, "show", false, "print every review as a table")
	return cmd
}

// report 打印统计并按格式保存结果；没有任何评论时跳过保存。
func (a *app) report(ctx context.Context, w io.Writer, res collect.Result, formats []string, o scrapeOpts) error {
	if res.Err != nil {
		logx.Warnf("收集在第 %d 页结束：%v", res.StoppedAt, res.Err)
	}
	p := res.ProductWithReviews()
	if len(p.Reviews) == 0 {
		fmt.Fprintln(w, "No reviews extracted.")
		return nil
	}
	if o.show {
		printReviews(w, p.Reviews)
	}
	printSummary(w, p, stats.Summarize(p.Code, p.Reviews))
	return a.save(ctx, w, p, formats, o.outDir, o.dbPath)
}

func (a *app) save(ctx context.Context, w io.Writer, p model.Product, formats []string, dir, dbPath string) error {
	var db *store.SQLite
	if slices.Contains(formats, config.FormatSQLite) {
		s, err := a.openStore(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		db = s
	}
	var saver export.ProductSaver
	if db != nil {
		saver = db
	}
	written, err := export.Save(ctx, p, formats, dir, saver)
	for _, target := range written {
		fmt.Fprintf(w, "Saved %s\n", target)
	}
	return err
}
