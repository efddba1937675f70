// 包 cli 提供命令行入口（cobra）：
// - scrape：抓取并导出某个商品的评论
// - stats：基于已导出的 JSON 或数据库快照计算统计
// - products：列出数据库中的快照
// - menu：交互式菜单
// - serve：表单式 Web 前端
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"review-scraper/internal/collect"
	"review-scraper/internal/config"
	"review-scraper/internal/fetch"
	"review-scraper/internal/logx"
	"review-scraper/internal/model"
	"review-scraper/internal/review"
	"review-scraper/internal/rules"
	"review-scraper/internal/store"
)

// app 为各子命令共享的运行环境，在 PersistentPreRunE 中初始化。
type app struct {
	cfg    *config.Config
	client *fetch.Client
	parser *review.Parser
}

// runner 为商品构造一次性的收集器。
func (a *app) runner(code string, maxPages int) *collect.Runner {
	return collect.ForProduct(a.client, a.parser, a.cfg.BaseURL, code, maxPages)
}

// checkCode 拒绝非法商品代码（代码会拼进 URL 与导出文件名）。
func checkCode(code string) error {
	if !model.ValidCode(code) {
		return fmt.Errorf("invalid product code %q: only letters, digits, '_' and '-' are allowed", code)
	}
	return nil
}

// openStore 打开 SQLite；dsn 为空时使用配置。
func (a *app) openStore(dsn string) (*store.SQLite, error) {
	if dsn == "" {
		dsn = a.cfg.Database.DSN
	}
	return store.OpenSQLite(dsn)
}

// NewRootCmd 构造完整命令树。
func NewRootCmd() *cobra.Command {
	a := &app{}
	var configPath, rulesPath string

	root := &cobra.Command{
		Use:           "review-scraper",
		Short:         "review-scraper collects product reviews, computes statistics and exports them.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, configPath, rulesPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "settings.yaml", "path to settings.yaml")
	root.PersistentFlags().StringVar(&rulesPath, "rules", "rules.yaml", "path to rules.yaml (optional)")

	root.AddCommand(
		newScrapeCmd(a),
		newStatsCmd(a),
		newProductsCmd(a),
		newMenuCmd(a),
		newServeCmd(a),
	)
	return root
}

// ExecuteContext 执行命令树，出错时打印到 stderr 并以 1 退出。
func ExecuteContext(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, configPath, rulesPath string) error {
	// 1) 配置：未显式指定且文件不存在时使用默认值
	cfg, err := config.Load(configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("config") {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}
	a.cfg = cfg

	// 2) 日志
	logx.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogLocale, cfg.LogColor)

	// 3) 解析规则：rules.yaml 覆盖内置预设
	var rl *rules.Rules
	if r, err := rules.Load(rulesPath); err == nil {
		rl = r
	} else if !errors.Is(err, fs.ErrNotExist) || cmd.Flags().Changed("rules") {
		return fmt.Errorf("load rules: %w", err)
	}
	a.parser = review.NewParser(rl.Resolve(cfg.Theme))

	// 4) HTTP 客户端：单次请求、固定 User-Agent
	cl, err := fetch.New(fetch.Options{
		ProxyHTTP:  cfg.Proxy.HTTP,
		ProxyHTTPS: cfg.Proxy.HTTPS,
		UserAgent:  cfg.UserAgent,
	})
	if err != nil {
		return fmt.Errorf("http client: %w", err)
	}
	a.client = cl
	return nil
}
