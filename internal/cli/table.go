package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"review-scraper/internal/model"
	"review-scraper/internal/store"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func printSummary(w io.Writer, p model.Product, s model.Summary) {
	t := newTable(w)
	title := p.Code
	if p.Name != "" {
		title = fmt.Sprintf("%s (%s)", p.Name, p.Code)
	}
	t.SetTitle(title)
	if p.Price != "" {
		t.AppendRow(table.Row{"Price", p.Price})
	}
	t.AppendRows([]table.Row{
		{"Reviews", s.Reviews},
		{"Average rating", fmt.Sprintf("%.2f", s.AverageRating)},
		{"Recommended", s.Positive},
		{"Not recommended / none", s.Negative},
		{"Avg helpful votes", fmt.Sprintf("%.2f", s.AvgHelpful)},
		{"Avg unhelpful votes", fmt.Sprintf("%.2f", s.AvgUnhelpful)},
		{"Top pros", counts(s.TopPros)},
		{"Top cons", counts(s.TopCons)},
	})
	t.Render()
}

func counts(cs []model.Count) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprintf("%s: %d", c.Value, c.N))
	}
	return strings.Join(parts, "\n")
}

func printReviews(w io.Writer, rs []model.Review) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "ID", "Author", "Recommendation", "Stars", "Pros", "Cons", "+", "-", "Published", "Purchased"})
	for i, r := range rs {
		t.AppendRow(table.Row{
			i + 1, r.ID, r.Author, r.Recommendation, r.Stars,
			strings.Join(r.Pros, "\n"), strings.Join(r.Cons, "\n"),
			r.HelpfulCount, r.UnhelpfulCount, r.PublishDate, r.PurchaseDate,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 24},
		{Number: 6, WidthMax: 30},
		{Number: 7, WidthMax: 30},
		{Number: 8, Align: text.AlignRight},
		{Number: 9, Align: text.AlignRight},
	})
	t.Render()
}

func printProducts(w io.Writer, ps []store.ProductInfo) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Code", "Name", "Price", "Reviews", "Scraped at"})
	for _, p := range ps {
		t.AppendRow(table.Row{p.Code, p.Name, p.Price, p.Reviews, p.ScrapedAt.Format("2006-01-02 15:04")})
	}
	t.Render()
}
