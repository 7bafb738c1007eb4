// Package config loads lazydiff configuration from YAML, git config and
// command line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/lazydiff/internal/theme"
	"gopkg.in/yaml.v3"
)

// AppConfig defines the global lazydiff configuration options.
type AppConfig struct {
	Theme            string
	ViewMode         string // "flat" or "tree"
	HistoryLimit     int
	SingleExportPath string
	AutoRefresh      bool
	RefreshInterval  time.Duration // periodic refresh, zero disables
	StatusTimeout    time.Duration
	ShowIcons        bool
	Pager            string
	MaxDiffChars     int
	DumpExtensions   []string
	CopyExportPath   bool
	DebugLog         string
}

// DefaultDumpExtensions are the source extensions gathered by the code dump.
var DefaultDumpExtensions = []string{".h", ".hpp", ".hh", ".c", ".cc", ".cpp", ".cxx"}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:            theme.DraculaName,
		ViewMode:         "flat",
		HistoryLimit:     50,
		SingleExportPath: "diff_export.txt",
		AutoRefresh:      true,
		StatusTimeout:    4 * time.Second,
		ShowIcons:        true,
		MaxDiffChars:     200000,
		DumpExtensions:   append([]string{}, DefaultDumpExtensions...),
	}
}

func normalizeList(value any) []string {
	if value == nil {
		return []string{}
	}

	switch v := value.(type) {
	case string:
		items := []string{}
		for _, field := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' }) {
			if field = strings.TrimSpace(field); field != "" {
				items = append(items, field)
			}
		}
		return items
	case []any:
		items := []string{}
		for _, item := range v {
			if item == nil {
				continue
			}
			text := strings.TrimSpace(fmt.Sprintf("%v", item))
			if text != "" {
				items = append(items, text)
			}
		}
		return items
	}
	return []string{}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return defaultVal
}

// coerceSeconds reads a duration given either as a number of seconds or as
// a Go duration string ("1500ms").
func coerceSeconds(value any, defaultVal time.Duration) time.Duration {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	case string:
		text := strings.TrimSpace(v)
		if i, err := strconv.Atoi(text); err == nil {
			return time.Duration(i) * time.Second
		}
		if d, err := time.ParseDuration(text); err == nil {
			return d
		}
	}
	return defaultVal
}

func coerceString(value any, defaultVal string) string {
	if value == nil {
		return defaultVal
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", value))
}

// applyConfig overlays the keys present in data onto cfg.
func applyConfig(cfg *AppConfig, data map[string]any) {
	if len(data) == 0 {
		return
	}

	if name, ok := data["theme"]; ok {
		if normalized := NormalizeThemeName(coerceString(name, "")); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if mode := strings.ToLower(coerceString(data["view_mode"], cfg.ViewMode)); mode == "flat" || mode == "tree" {
		cfg.ViewMode = mode
	}
	if limit := coerceInt(data["history_limit"], cfg.HistoryLimit); limit >= 0 {
		cfg.HistoryLimit = limit
	}
	if path := coerceString(data["single_export_path"], cfg.SingleExportPath); path != "" {
		cfg.SingleExportPath = path
	}
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
	if interval := coerceSeconds(data["refresh_interval"], cfg.RefreshInterval); interval >= 0 {
		cfg.RefreshInterval = interval
	}
	if timeout := coerceSeconds(data["status_timeout"], cfg.StatusTimeout); timeout > 0 {
		cfg.StatusTimeout = timeout
	}
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.Pager = coerceString(data["pager"], cfg.Pager)
	if limit := coerceInt(data["max_diff_chars"], cfg.MaxDiffChars); limit > 0 {
		cfg.MaxDiffChars = limit
	}
	if raw, ok := data["dump_extensions"]; ok {
		if exts := normalizeExtensions(normalizeList(raw)); len(exts) > 0 {
			cfg.DumpExtensions = exts
		}
	}
	cfg.CopyExportPath = coerceBool(data["copy_export_path"], cfg.CopyExportPath)
	cfg.DebugLog = coerceString(data["debug_log"], cfg.DebugLog)
}

func normalizeExtensions(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(item)
		if !strings.HasPrefix(item, ".") {
			item = "." + item
		}
		out = append(out, item)
	}
	return out
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyConfig(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config")
}

// LoadConfig reads the YAML configuration and layers git config values on
// top. An explicit configPath must exist; the default locations may be
// missing.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string
	if configPath != "" {
		expanded, err := expandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		if _, err := os.Stat(expanded); err != nil {
			return DefaultConfig(), fmt.Errorf("config file %s: %w", expanded, err)
		}
		paths = []string{expanded}
	} else {
		base := filepath.Join(getConfigDir(), "lazydiff")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is the user's own configuration file
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
		applyConfig(cfg, yamlData)
		break
	}

	if global, err := loadGitConfig(true, ""); err == nil {
		applyConfig(cfg, global)
	}
	if repoPath := determineRepoPath(); repoPath != "" {
		if local, err := loadGitConfig(false, repoPath); err == nil {
			applyConfig(cfg, local)
		}
	}

	return cfg, nil
}

// ApplyCLIOverrides applies --config ld.key=value overrides, which take
// precedence over every other source.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfig(cfg, data)
	return nil
}

// Keys lists the configuration keys understood by lazydiff.
func Keys() []string {
	return []string{
		"theme", "view_mode", "history_limit", "single_export_path",
		"auto_refresh", "refresh_interval", "status_timeout", "show_icons",
		"pager", "max_diff_chars", "dump_extensions", "copy_export_path",
		"debug_log",
	}
}

func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

// NormalizeThemeName returns the canonical theme name or "" if unknown.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, available := range theme.AvailableThemes() {
		if name == available {
			return available
		}
	}
	return ""
}
