package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"review-scraper/internal/collect"
	"review-scraper/internal/logx"
	"review-scraper/internal/store"
	"review-scraper/internal/web"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve [--addr :8080]",
		Short: "Serves a web form that scrapes a product code and renders the results.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = a.cfg.Server.Addr
			}
			// DATABASE.enabled 时每次成功抓取都写入快照
			var db *store.SQLite
			if a.cfg.Database.Enabled {
				s, err := a.openStore("")
				if err != nil {
					return err
				}
				defer s.Close()
				db = s
			}
			scrape := func(ctx context.Context, code string) collect.Result {
				res := a.runner(code, a.cfg.MaxPages).CollectAll(ctx)
				if db != nil && len(res.Reviews) > 0 {
					if err := db.SaveProduct(ctx, res.ProductWithReviews()); err != nil {
						logx.Warnf("写入快照失败：%s 错误=%v", code, err)
					}
				}
				return res
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           web.New(scrape).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			ctx := cmd.Context()
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
			logx.Infof("Web 前端监听：%s", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
