package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"review-scraper/internal/export"
	"review-scraper/internal/model"
	"review-scraper/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	var dbCode, dbPath string
	var show bool
	cmd := &cobra.Command{
		Use:   "stats [<reviews.json>] [--from-db <product-code>]",
		Short: "Computes statistics over an exported JSON file or a stored snapshot.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p model.Product
			switch {
			case dbCode != "":
				if err := checkCode(dbCode); err != nil {
					return err
				}
				s, err := a.openStore(dbPath)
				if err != nil {
					return err
				}
				defer s.Close()
				if p, err = s.LoadProduct(cmd.Context(), dbCode); err != nil {
					return err
				}
			case len(args) == 1:
				reviews, err := export.ReadJSON(args[0])
				if err != nil {
					return err
				}
				p = model.Product{Code: codeFromPath(args[0]), Reviews: reviews}
			default:
				return fmt.Errorf("either a JSON file or --from-db is required")
			}
			w := cmd.OutOrStdout()
			if show {
				printReviews(w, p.Reviews)
			}
			printSummary(w, p, stats.Summarize(p.Code, p.Reviews))
			return nil
		},
	}
	cmd.Flags().StringVar(&dbCode, "from-db", "", "product code of a stored snapshot")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default DATABASE.dsn)")
	cmd.Flags().BoolVar(&show, "show", false, "print every review as a table")
	return cmd
}

func newProductsCmd(a *app) *cobra.Command {
	var dbPath, del string
	cmd := &cobra.Command{
		Use:   "products [--delete <product-code>]",
		Short: "Lists product snapshots stored in the sqlite database, or deletes one.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if del != "" {
				if err := checkCode(del); err != nil {
					return err
				}
			}
			s, err := a.openStore(dbPath)
			if err != nil {
				return err
			}
			defer s.Close()
			if del != "" {
				if err := s.DeleteProduct(cmd.Context(), del); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", del)
				return nil
			}
			list, err := s.ListProducts(cmd.Context())
			if err != nil {
				return err
			}
			printProducts(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite database path (default DATABASE.dsn)")
	cmd.Flags().StringVar(&del, "delete", "", "delete the stored snapshot of this product code")
	return cmd
}

// codeFromPath 取文件名（去扩展名）作为商品代码，与导出命名 {code}.json 对应。
func codeFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
