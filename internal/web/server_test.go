package web_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"review-scraper/internal/collect"
	"review-scraper/internal/model"
	"review-scraper/internal/web"
)

func fakeScrape(calls *[]string) web.ScrapeFunc {
	return func(_ context.Context, code string) collect.Result {
		*calls = append(*calls, code)
		return collect.Result{
			Product: model.Product{Code: code, Name: "Czajnik <Pro>"},
			Reviews: []model.Review{
				{ID: "1", Author: "Anna", Recommendation: "Polecam", Stars: "5/5", Pros: []string{"szybki"}, Cons: []string{}},
				{ID: "2", Author: "Jan", Recommendation: "No recommendation", Stars: "3/5", Pros: []string{"szybki"}, Cons: []string{"głośny"}},
			},
			Outcome:   collect.OutcomeEmptyPage,
			StoppedAt: 2,
		}
	}
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestServer_FormAndResults(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(web.New(fakeScrape(&calls)).Handler())
	defer srv.Close()

	code, body := get(t, srv, "/")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, `<form action="/reviews"`)

	code, body = get(t, srv, "/reviews?code=12345")
	require.Equal(t, http.StatusOK, code)
	require.Contains(t, body, "Czajnik &lt;Pro&gt;")
	require.Contains(t, body, "4.00")
	require.Contains(t, body, "szybki (2)")
	require.Contains(t, body, "empty_page")
	require.Equal(t, []string{"12345"}, calls)
}

func TestServer_RejectsBadCode(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(web.New(fakeScrape(&calls)).Handler())
	defer srv.Close()

	code, _ := get(t, srv, "/reviews?code=../etc")
	require.Equal(t, http.StatusBadRequest, code)
	code, _ = get(t, srv, "/reviews")
	require.Equal(t, http.StatusBadRequest, code)
	require.Empty(t, calls)
}

func TestServer_API(t *testing.T) {
	var calls []string
	srv := httptest.NewServer(web.New(fakeScrape(&calls)).Handler())
	defer srv.Close()

	code, body := get(t, srv, "/api/products/777/reviews")
	require.Equal(t, http.StatusOK, code)
	var out struct {
		Product   model.Product  `json:"product"`
		Outcome   string         `json:"outcome"`
		StoppedAt int            `json:"stopped_at"`
		Summary   model.Summary  `json:"summary"`
		Reviews   []model.Review `json:"reviews"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	require.Equal(t, "777", out.Product.Code)
	require.Equal(t, "empty_page", out.Outcome)
	require.Equal(t, 2, out.StoppedAt)
	require.Equal(t, 1, out.Summary.Positive)
	require.Equal(t, 1, out.Summary.Negative)
	require.Len(t, out.Reviews, 2)

	code, body = get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, code)
	require.True(t, strings.HasPrefix(body, "ok"))
}
