package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/John-Robertt/peekrate/internal/dom"
)

func noEnv(string) string { return "" }

func envWith(key, val string) func(string) string {
	return func(k string) string {
		if k == key {
			return val
		}
		return ""
	}
}

func TestLoadEffective_MissingAPIKey(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{}, noEnv)
	if Code(err) != ErrCodeMissingAPIKey {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeMissingAPIKey, err, Code(err))
	}
}

func TestLoadEffective_ExplicitConfigNotFound(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{ConfigPath: "nope.json"}, noEnv)
	if Code(err) != ErrCodeNotFound {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeNotFound, err, Code(err))
	}
}

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{}, envWith(EnvAPIKey, "envkey"))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.APIKey != "envkey" {
		t.Fatalf("期望 api_key=envkey，实际=%q", eff.APIKey)
	}
	if eff.ConfigPath != "" {
		t.Fatalf("未找到默认配置文件时 ConfigPath 应为空，实际=%q", eff.ConfigPath)
	}
	if eff.Debounce != DefaultDebounce {
		t.Fatalf("期望 debounce=%v，实际=%v", DefaultDebounce, eff.Debounce)
	}
	if eff.Selectors != dom.DefaultSelectors() {
		t.Fatalf("期望默认选择器，实际=%+v", eff.Selectors)
	}
	if eff.LogLevel != "info" || eff.LogFormat != "text" {
		t.Fatalf("期望 info/text，实际=%s/%s", eff.LogLevel, eff.LogFormat)
	}
}

func TestLoadEffective_APIKeyMergeOrder(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"api_key":"filekey"}`))

	eff, err := LoadEffective(cwd, CLIArgs{}, noEnv)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.APIKey != "filekey" {
		t.Fatalf("期望 filekey，实际=%q", eff.APIKey)
	}

	eff, err = LoadEffective(cwd, CLIArgs{}, envWith(EnvAPIKey, "envkey"))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.APIKey != "envkey" {
		t.Fatalf("环境变量应覆盖配置文件，实际=%q", eff.APIKey)
	}

	eff, err = LoadEffective(cwd, CLIArgs{APIKey: "clikey", APIKeySet: true}, envWith(EnvAPIKey, "envkey"))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.APIKey != "clikey" {
		t.Fatalf("CLI 应覆盖环境变量，实际=%q", eff.APIKey)
	}

	// 显式传空的 --api-key 也会覆盖，最终为空即报错。
	_, err = LoadEffective(cwd, CLIArgs{APIKey: " ", APIKeySet: true}, noEnv)
	if Code(err) != ErrCodeMissingAPIKey {
		t.Fatalf("期望 %q，实际 err=%v", ErrCodeMissingAPIKey, err)
	}
}

func TestLoadEffective_FullFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, "custom.json"), []byte(`{
		"api_key": "k",
		"base_url": "http://127.0.0.1:9999",
		"proxy": {"url": "http://127.0.0.1:8080"},
		"debounce_ms": 150,
		"card_selector": ".slider-item",
		"title_attr": "data-title",
		"show_not_found": true,
		"log": {"level": "warn", "format": "json"}
	}`))

	eff, err := LoadEffective(cwd, CLIArgs{ConfigPath: "custom.json", LogLevel: "debug", LogLevelSet: true}, noEnv)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.ConfigPath != filepath.Join(cwd, "custom.json") {
		t.Fatalf("ConfigPath 不符：%q", eff.ConfigPath)
	}
	if eff.BaseURL != "http://127.0.0.1:9999" || eff.ProxyURL != "http://127.0.0.1:8080" {
		t.Fatalf("地址不符：base=%q proxy=%q", eff.BaseURL, eff.ProxyURL)
	}
	if eff.Debounce != 150*time.Millisecond {
		t.Fatalf("期望 150ms，实际=%v", eff.Debounce)
	}
	if eff.Selectors.Card != ".slider-item" || eff.Selectors.TitleAttr != "data-title" {
		t.Fatalf("选择器不符：%+v", eff.Selectors)
	}
	if !eff.ShowNotFound {
		t.Fatalf("期望 show_not_found=true")
	}
	if eff.LogLevel != "debug" {
		t.Fatalf("CLI 应覆盖 log.level，实际=%q", eff.LogLevel)
	}
	if eff.LogFormat != "json" {
		t.Fatalf("期望 json，实际=%q", eff.LogFormat)
	}
}

func TestLoadEffective_DebounceClamp(t *testing.T) {
	cases := map[string]time.Duration{
		`{"api_key":"k","debounce_ms":-5}`:    0,
		`{"api_key":"k","debounce_ms":0}`:     0,
		`{"api_key":"k","debounce_ms":99999}`: 5 * time.Second,
	}
	for body, want := range cases {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, FileName), []byte(body))
		eff, err := LoadEffective(cwd, CLIArgs{}, noEnv)
		if err != nil {
			t.Fatalf("不期望错误：%v", err)
		}
		if eff.Debounce != want {
			t.Fatalf("%s: 期望 %v，实际=%v", body, want, eff.Debounce)
		}
	}
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := []string{
		`{"api_key":"k",`,
		`{"api_key":"k","base_url":"ftp://example.test"}`,
		`{"api_key":"k","base_url":"not a url"}`,
		`{"api_key":"k","proxy":{"url":"http://[::1"}}`,
		`{"api_key":"k","title_attr":"bad attr"}`,
		`{"api_key":"k","log":{"level":"loud"}}`,
		`{"api_key":"k","log":{"format":"xml"}}`,
	}
	for _, body := range cases {
		cwd := t.TempDir()
		writeFile(t, filepath.Join(cwd, FileName), []byte(body))
		_, err := LoadEffective(cwd, CLIArgs{}, noEnv)
		if Code(err) != ErrCodeInvalid {
			t.Fatalf("%s: 期望 %q，实际 err=%v", body, ErrCodeInvalid, err)
		}
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir 失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写文件失败：%v", err)
	}
}
