package fetch_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"review-scraper/internal/fetch"
)

func TestFetch_UserAgentAndSuccess(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cl, err := fetch.New(fetch.Options{Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	body, err := cl.GetText(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if body != "ok" {
		t.Fatalf("body = %q, want ok", body)
	}
	if gotUA != "Mozilla/5.0" {
		t.Fatalf("user-agent = %q, want %q", gotUA, "Mozilla/5.0")
	}
}

func TestFetch_OnlyStatus200IsSuccess(t *testing.T) {
	for _, code := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusInternalServerError} {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(code)
		}))
		cl, _ := fetch.New(fetch.Options{Timeout: 2 * time.Second})
		_, err := cl.Get(context.Background(), srv.URL)
		srv.Close()
		if !errors.Is(err, fetch.ErrStatus) {
			t.Fatalf("status %d: err = %v, want ErrStatus", code, err)
		}
		if n := atomic.LoadInt32(&calls); n != 1 {
			t.Fatalf("status %d: calls = %d, want exactly one attempt", code, n)
		}
	}
}

func TestPageFetcher_URLAndFetch(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{UserAgent: "Mozilla/5.0"})
	pf := fetch.NewPageFetcher(cl, srv.URL+"/", "12345")
	if got, want := pf.URL(3), srv.URL+"/12345/opinie-3"; got != want {
		t.Fatalf("URL(3) = %q, want %q", got, want)
	}
	html, err := pf.FetchPage(context.Background(), 2)
	if err != nil {
		t.Fatalf("fetch page: %v", err)
	}
	if gotPath != "/12345/opinie-2" || html != "<html></html>" {
		t.Fatalf("path=%q html=%q", gotPath, html)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{Timeout: 100 * time.Millisecond})
	if _, err := cl.Get(context.Background(), srv.URL); err == nil {
		t.Fatal("expected timeout error, got nil")
	}
}

func TestFetch_OversizedBodyIsAnError(t *testing.T) {
	big := bytes.Repeat([]byte("a"), fetch.MaxBodySize+1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/big":
			_, _ = w.Write(big)
		default:
			_, _ = w.Write(big[:fetch.MaxBodySize])
		}
	}))
	defer srv.Close()

	cl, _ := fetch.New(fetch.Options{})
	if _, err := cl.GetText(context.Background(), srv.URL+"/big"); !errors.Is(err, fetch.ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
	body, err := cl.GetText(context.Background(), srv.URL+"/exact")
	if err != nil {
		t.Fatalf("body at the limit: %v", err)
	}
	if len(body) != fetch.MaxBodySize {
		t.Fatalf("len = %d, want %d", len(body), fetch.MaxBodySize)
	}
}
