// 包 config 负责加载与校验应用配置（settings.yaml），
// 商品代码不在此处读取：由调用方在抓取时显式传入。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 为抓取/导出/服务所需配置。
type Config struct {
	BaseURL   string   `yaml:"BASE_URL"`
	UserAgent string   `yaml:"USER_AGENT"`
	MaxPages  int      `yaml:"MAX_PAGES"` // 0 表示不限制
	OutputDir string   `yaml:"OUTPUT_DIR"`
	Formats   []string `yaml:"FORMATS"` // json|csv|sqlite
	Theme     string   `yaml:"THEME"`   // rules.yaml 中的预设名
	Database  Database `yaml:"DATABASE"`
	Server    Server   `yaml:"SERVER"`
	Proxy     Proxy    `yaml:"PROXY"`
	LogLevel  string   `yaml:"LOG_LEVEL"`
	LogFormat string   `yaml:"LOG_FORMAT"` // text|json|pretty
	LogLocale string   `yaml:"LOG_LOCALE"` // zh-CN|en
	LogColor  string   `yaml:"LOG_COLOR"`  // auto|always|never
}

type Database struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type Server struct {
	Addr string `yaml:"addr"`
}

type Proxy struct {
	HTTP  string `yaml:"http"`
	HTTPS string `yaml:"https"`
}

// 支持的导出格式。
const (
	FormatJSON   = "json"
	FormatCSV    = "csv"
	FormatSQLite = "sqlite"
)

// Default 返回填充默认值后的配置（无 settings.yaml 时使用）。
func Default() *Config {
	c := &Config{}
	_ = c.Validate()
	return c
}

// Load 从文件读取 YAML 并校验；文件不存在时错误可用 errors.Is(err, fs.ErrNotExist) 判断。
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Validate 负责合法性检查与默认值设置。
func (c *Config) Validate() error {
	if c.MaxPages < 0 {
		return errors.New("MAX_PAGES must be >= 0")
	}

	if c.BaseURL == "" {
		c.BaseURL = "https://www.ceneo.pl/"
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0"
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	formats, err := NormalizeFormats(c.Formats)
	if err != nil {
		return err
	}
	c.Formats = formats
	if c.Theme == "" {
		c.Theme = "ceneo"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = "./reviews.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.LogFormat == "" {
		c.LogFormat = "pretty"
	}
	if c.LogLocale == "" {
		c.LogLocale = "zh-CN"
	}
	if c.LogColor == "" {
		c.LogColor = "auto"
	}
	return nil
}

// NormalizeFormats 小写去重并校验导出格式；空列表默认 json。
// 单独的 "none" 表示不导出。
func NormalizeFormats(in []string) ([]string, error) {
	if len(in) == 0 {
		return []string{FormatJSON}, nil
	}
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, f := range in {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case "":
			continue
		case "none":
			return []string{}, nil
		case FormatJSON, FormatCSV, FormatSQLite:
		default:
			return nil, fmt.Errorf("unsupported format: %s", f)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
