// 命令行入口：
// - 捕获 SIGINT/SIGTERM 并取消上下文（抓取循环与 Web 服务随之退出）
// - 子命令与 settings.yaml/rules.yaml 的解析见 internal/cli
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"review-scraper/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	cli.ExecuteContext(ctx)
}
