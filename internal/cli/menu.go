package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"review-scraper/internal/config"
	"review-scraper/internal/logx"
	"review-scraper/internal/stats"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive text menu: scrape a product, then choose how to save it.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.menu(cmd, bufio.NewScanner(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}
}

func readLine(in *bufio.Scanner) (string, bool) {
	if !in.Scan() {
		return "", false
	}
	return strings.TrimSpace(in.Text()), true
}

// menu 循环显示主菜单直至选择退出或输入结束。
func (a *app) menu(cmd *cobra.Command, in *bufio.Scanner, w io.Writer) error {
	ctx := cmd.Context()
	for {
		fmt.Fprint(w, "\n1) Scrape reviews\n2) Exit\n> ")
		choice, ok := readLine(in)
		if !ok {
			return in.Err()
		}
		switch strings.ToLower(choice) {
		case "1", "scrape":
		case "2", "exit", "q":
			return nil
		default:
			fmt.Fprintln(w, "Unknown option.")
			continue
		}

		fmt.Fprint(w, "Enter product code: ")
		code, ok := readLine(in)
		if !ok {
			return in.Err()
		}
		if code == "" {
			fmt.Fprintln(w, "Product code is required.")
			continue
		}
		if err := checkCode(code); err != nil {
			fmt.Fprintln(w, "Invalid product code.")
			continue
		}
		res := a.runner(code, a.cfg.MaxPages).CollectAll(ctx)
		p := res.ProductWithReviews()
		if len(p.Reviews) == 0 {
			fmt.Fprintln(w, "No reviews extracted.")
			continue
		}
		printSummary(w, p, stats.Summarize(p.Code, p.Reviews))

		formats, ok := askFormats(in, w)
		if !ok {
			return in.Err()
		}
		if err := a.save(ctx, w, p, formats, a.cfg.OutputDir, ""); err != nil {
			logx.Errorf("保存失败：%v", err)
		}
	}
}

// askFormats 显示保存子菜单，返回所选格式（跳过时为空）。
func askFormats(in *bufio.Scanner, w io.Writer) ([]string, bool) {
	for {
		fmt.Fprint(w, "Save results as:\n1) JSON\n2) CSV\n3) JSON and CSV\n4) Skip\n> ")
		choice, ok := readLine(in)
		if !ok {
			return nil, false
		}
		switch choice {
		case "1":
			return []string{config.FormatJSON}, true
		case "2":
			return []string{config.FormatCSV}, true
		case "3":
			return []string{config.FormatJSON, config.FormatCSV}, true
		case "4":
			return nil, true
		}
		fmt.Fprintln(w, "Unknown option.")
	}
}
