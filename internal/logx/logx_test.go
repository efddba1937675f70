package logx_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"review-scraper/internal/logx"
)

func TestLogx_PrettyZH_Info(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "debug", "pretty", "zh-CN", "never")
	logx.Infof("hello %s", "world")
	if !strings.Contains(buf.String(), "[信息] hello world") {
		t.Fatalf("expect zh label [信息], got: %q", buf.String())
	}
}

func TestLogx_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "warn", "pretty", "en", "never")
	logx.Infof("should not print")
	logx.Warnf("warn on")
	out := buf.String()
	if strings.Contains(out, "should not print") {
		t.Fatalf("info should be filtered when level=warn")
	}
	if !strings.Contains(out, "[WARN] warn on") {
		t.Fatalf("expect warn label present, got: %q", out)
	}
}

func TestLogx_Silent(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "off", "pretty", "en", "never")
	logx.Errorf("boom")
	if buf.Len() != 0 {
		t.Fatalf("expect no output when level=off, got: %q", buf.String())
	}
}

func TestLogx_PrettyAttrs(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "info", "pretty", "en", "never")
	logx.Info("http_request", "route", "/reviews", "status", 200)
	out := buf.String()
	if !strings.Contains(out, "route=/reviews") || !strings.Contains(out, "status=200") {
		t.Fatalf("attrs missing: %q", out)
	}
}

func TestLogx_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logx.InitWriter(&buf, "info", "json", "en", "never")
	logx.Infof("json line")
	if !strings.Contains(buf.String(), `"msg":"json line"`) {
		t.Fatalf("expect json output, got: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := logx.ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
