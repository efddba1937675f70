// 包 web 提供表单式前端：输入商品代码，抓取并展示评论与统计。
package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"review-scraper/internal/collect"
	"review-scraper/internal/export"
	"review-scraper/internal/logx"
	"review-scraper/internal/model"
	"review-scraper/internal/stats"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"join": func(v []string) string { return strings.Join(v, "; ") },
}).ParseFS(templateFS, "templates/*.html"))

// ScrapeFunc 对一个商品执行一次完整收集。
type ScrapeFunc func(ctx context.Context, code string) collect.Result

// Server 持有路由与抓取入口，每个请求独立运行一次收集。
type Server struct {
	mux    *chi.Mux
	scrape ScrapeFunc
}

func New(scrape ScrapeFunc) *Server {
	m := chi.NewRouter()
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(accessLog)

	s := &Server{mux: m, scrape: scrape}
	m.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	m.Get("/", s.index)
	m.Get("/reviews", s.reviewsPage)
	m.Get("/api/products/{code}/reviews", s.reviewsAPI)
	return s
}

func (s *Server) Handler() http.Handler { return s.mux }

// view 为结果页与 API 共用的数据。
type view struct {
	Product   model.Product   `json:"product"`
	Outcome   collect.Outcome `json:"outcome"`
	StoppedAt int             `json:"stopped_at,omitempty"`
	Error     string          `json:"error,omitempty"`
	Summary   model.Summary   `json:"summary"`
	Reviews   []model.Review  `json:"reviews"`
}

type form struct {
	Code  string
	Error string
}

func (s *Server) run(ctx context.Context, code string) view {
	res := s.scrape(ctx, code)
	v := view{
		Product:   res.Product,
		Outcome:   res.Outcome,
		StoppedAt: res.StoppedAt,
		Summary:   stats.Summarize(code, res.Reviews),
		Reviews:   res.Reviews,
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	return v
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	render(w, http.StatusOK, "index", form{})
}

func (s *Server) reviewsPage(w http.ResponseWriter, r *http.Request) {
	code := strings.TrimSpace(r.URL.Query().Get("code"))
	if !model.ValidCode(code) {
		render(w, http.StatusBadRequest, "index", form{Code: code, Error: "Nieprawidłowy kod produktu."})
		return
	}
	render(w, http.StatusOK, "reviews", s.run(r.Context(), code))
}

func (s *Server) reviewsAPI(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if !model.ValidCode(code) {
		writeProblem(w, http.StatusBadRequest, "Bad Request", "invalid product code")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := export.WriteJSON(w, s.run(r.Context(), code)); err != nil {
		logx.Errorf("写入 JSON 响应失败：%v", err)
	}
}

func render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		logx.Errorf("渲染模板 %s 失败：%v", name, err)
	}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

// accessLog 记录路由/方法/状态/耗时。
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logx.Info("http_request",
			"route", route,
			"method", r.Method,
			"status", status,
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
