package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/John-Robertt/peekrate/internal/dom"
)

const (
	// ErrCodeNotFound 表示 --config 指定的配置文件不存在。
	ErrCodeNotFound = "config_not_found"
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeMissingAPIKey 表示 CLI/环境变量/配置文件都没有提供凭据。
	ErrCodeMissingAPIKey = "config_missing_api_key"
)

const (
	// FileName 是默认配置文件名（位于 cwd）。
	FileName = "peekrate.json"
	// EnvAPIKey 是凭据的环境变量名。
	EnvAPIKey = "OMDB_API_KEY"

	// DefaultDebounce 是进入事件的默认静默期。
	DefaultDebounce = 300 * time.Millisecond
	maxDebounceMS   = 5000
)

// CLIArgs 保留“是否显式指定”的信息，保证 CLI 能覆盖配置文件（包括覆盖成空值以外的任何值）。
type CLIArgs struct {
	ConfigPath string

	APIKey    string
	APIKeySet bool

	LogLevel    string
	LogLevelSet bool
}

// FileConfig 对应 peekrate.json 的解析结构。
type FileConfig struct {
	APIKey       string       `json:"api_key"`
	BaseURL      string       `json:"base_url"`
	Proxy        *ProxyConfig `json:"proxy"`
	DebounceMS   *int         `json:"debounce_ms"`
	CardSelector string       `json:"card_selector"`
	TitleAttr    string       `json:"title_attr"`
	ShowNotFound bool         `json:"show_not_found"`
	Log          *LogConfig   `json:"log"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	// ConfigPath 是实际读取的配置文件（可能为空：未找到默认配置文件）。
	ConfigPath string

	APIKey   string
	BaseURL  string
	ProxyURL string

	Debounce  time.Duration
	Selectors dom.Selectors

	ShowNotFound bool

	LogLevel  string
	LogFormat string
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeNotFound:
		return fmt.Sprintf("%s：未找到配置文件 %q", e.Code, e.Path)
	case ErrCodeMissingAPIKey:
		return fmt.Sprintf("%s：缺少 api_key（可用 --api-key、环境变量 %s 或配置文件提供）", e.Code, EnvAPIKey)
	case ErrCodeInvalid:
		if e.Err != nil {
			return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置文件 %q 无效", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 发现并读取配置文件，然后与环境变量、CLI 参数合并为最终配置。
//
// 发现规则（固定）：
// 1) CLI 提供 --config：必须存在
// 2) 否则尝试 <cwd>/peekrate.json（可选）
//
// 覆盖优先级（固定）：
// - api_key：CLI > 环境变量 OMDB_API_KEY > config；最终为空则报 config_missing_api_key
// - log.level：CLI > config > 默认 info
// - 其他字段：仅由 config 控制
func LoadEffective(cwd string, cli CLIArgs, getenv func(string) string) (EffectiveConfig, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var (
		cfgPath string
		fc      FileConfig
		exists  bool
	)
	if strings.TrimSpace(cli.ConfigPath) != "" {
		cfgPath = absCleanFrom(cwdAbs, cli.ConfigPath)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			return EffectiveConfig{}, &Error{Code: ErrCodeNotFound, Path: cfgPath, Err: os.ErrNotExist}
		}
	} else {
		cfgPath = filepath.Join(cwdAbs, FileName)
		fc, exists, err = readFileConfig(cfgPath)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
		if !exists {
			cfgPath = ""
		}
	}

	return merge(cli, fc, cfgPath, getenv)
}

var titleAttrRE = regexp.MustCompile(`^[A-Za-z_:][-A-Za-z0-9_:.]*$`)

func merge(cli CLIArgs, fc FileConfig, cfgPath string, getenv func(string) string) (EffectiveConfig, error) {
	invalid := func(err error) error {
		return &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	// api_key：CLI > env > config
	apiKey := strings.TrimSpace(fc.APIKey)
	if v := strings.TrimSpace(getenv(EnvAPIKey)); v != "" {
		apiKey = v
	}
	if cli.APIKeySet {
		apiKey = strings.TrimSpace(cli.APIKey)
	}
	if apiKey == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeMissingAPIKey, Path: cfgPath}
	}

	baseURL := strings.TrimSpace(fc.BaseURL)
	if baseURL != "" {
		u, err := url.Parse(baseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return EffectiveConfig{}, invalid(fmt.Errorf("base_url 无效：%q", baseURL))
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return EffectiveConfig{}, invalid(fmt.Errorf("base_url 必须是 http/https：%q", baseURL))
		}
	}

	proxyURL := ""
	if fc.Proxy != nil {
		proxyURL = strings.TrimSpace(fc.Proxy.URL)
	}
	if proxyURL != "" {
		if _, err := url.Parse(proxyURL); err != nil {
			return EffectiveConfig{}, invalid(fmt.Errorf("proxy.url 无效：%w", err))
		}
	}

	// debounce_ms：未指定用默认；范围 [0, 5000]，超出截断。
	debounce := DefaultDebounce
	if fc.DebounceMS != nil {
		ms := *fc.DebounceMS
		if ms < 0 {
			ms = 0
		}
		if ms > maxDebounceMS {
			ms = maxDebounceMS
		}
		debounce = time.Duration(ms) * time.Millisecond
	}

	sel := dom.DefaultSelectors()
	if s := strings.TrimSpace(fc.CardSelector); s != "" {
		sel.Card = s
	}
	if a := strings.TrimSpace(fc.TitleAttr); a != "" {
		if !titleAttrRE.MatchString(a) {
			return EffectiveConfig{}, invalid(fmt.Errorf("title_attr 不是合法的属性名：%q", a))
		}
		sel.TitleAttr = a
	}

	level, format := "info", "text"
	if fc.Log != nil {
		if v := strings.TrimSpace(fc.Log.Level); v != "" {
			level = v
		}
		if v := strings.TrimSpace(fc.Log.Format); v != "" {
			format = v
		}
	}
	if cli.LogLevelSet {
		level = cli.LogLevel
	}
	if err := validateLevel(level); err != nil {
		return EffectiveConfig{}, invalid(err)
	}
	switch format {
	case "text", "json":
	default:
		return EffectiveConfig{}, invalid(fmt.Errorf("log.format 只能是 text 或 json，实际是 %q", format))
	}

	return EffectiveConfig{
		ConfigPath:   cfgPath,
		APIKey:       apiKey,
		BaseURL:      baseURL,
		ProxyURL:     proxyURL,
		Debounce:     debounce,
		Selectors:    sel,
		ShowNotFound: fc.ShowNotFound,
		LogLevel:     level,
		LogFormat:    format,
	}, nil
}

func validateLevel(l string) error {
	switch l {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("log.level 只能是 debug/info/warn/error，实际是 %q", l)
	}
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件。
// 返回值 exists 表示该文件是否存在（不存在不算错误）。
func readFileConfig(path string) (fc FileConfig, exists bool, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, false, nil
		}
		return FileConfig{}, false, err
	}
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, true, err
	}
	return fc, true, nil
}
