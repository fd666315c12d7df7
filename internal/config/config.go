/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.

type GeneralConfig struct {
	Theme     string `yaml:"theme"`     // "system" | "light" | "dark"
	Workspace string `yaml:"workspace"` // perspective name used when none is given
}

type LayoutConfig struct {
	DragHysteresis  int    `yaml:"drag_hysteresis"` // px before a press becomes a drag
	PerspectiveFile string `yaml:"perspective_file"`
	UndoMaxDepth    int    `yaml:"undo_max_depth"`
	UndoMaxBytes    int    `yaml:"undo_max_bytes"`
	UndoCoalesceMs  int    `yaml:"undo_coalesce_ms"`
}

type StoreConfig struct {
	Driver     string `yaml:"driver"` // "sqlite" | "postgres"
	SQLitePath string `yaml:"sqlite_path"`
	// PostgresDSN never carries the password; it lives in the OS keychain.
	PostgresDSN string `yaml:"postgres_dsn"`
	KeepHistory int    `yaml:"keep_history"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
	Color  bool   `yaml:"color"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Layout        LayoutConfig  `yaml:"layout"`
	Store         StoreConfig   `yaml:"store"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{Theme: "system", Workspace: "default"},
		Layout: LayoutConfig{
			DragHysteresis: 10,
			UndoMaxDepth:   100,
			UndoMaxBytes:   8 << 20,
			UndoCoalesceMs: 400,
		},
		Store:   StoreConfig{Driver: "sqlite", KeepHistory: 20},
		Logging: LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvConfigPath     = "GDS_CONFIG"
	EnvWorkspace      = "GDS_WORKSPACE"
	EnvDragHysteresis = "GDS_DRAG_HYSTERESIS"
	EnvStoreDriver    = "GDS_STORE_DRIVER"
	EnvStoreDSN       = "GDS_STORE_DSN"
	EnvLogLevel       = "GDS_LOG_LEVEL"
	EnvLogFormat      = "GDS_LOG_FORMAT"
	EnvLogSource      = "GDS_LOG_SOURCE"
	EnvLogFile        = "GDS_LOG_FILE"
	EnvLogColor       = "GDS_LOG_COLOR"
)

// Service/keys for OS keyring.
const (
	keyringService  = "DockShell"
	keyringPassword = "store_password"
)

// ConfigDir returns the per-user directory holding config and the local store.
func ConfigDir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "DockShell")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "DockShell")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			base = filepath.Join(xdg, "dockshell")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "dockshell")
		}
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the per-user config file path, or GDS_CONFIG when set.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads user config file (if present), applies defaults, and merges environment overrides.
// It also loads the store password from the keyring (returned separately, never kept in the struct).
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", fmt.Errorf("parse %s: %w", path, err)
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	pw, _ := tokenStore.Get(keyringService, keyringPassword)
	return cfg, pw, nil
}

// Save writes the user config YAML and persists the password into the OS keyring (if non-empty).
func Save(cfg AppConfig, password string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	cfg.Store.PostgresDSN = StripPassword(cfg.Store.PostgresDSN)
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if password != "" {
		if err := tokenStore.Set(keyringService, keyringPassword, password); err != nil {
			return err
		}
	}
	return nil
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	if strings.TrimSpace(src.General.Workspace) != "" {
		dst.General.Workspace = strings.TrimSpace(src.General.Workspace)
	}
	if src.Layout.DragHysteresis > 0 {
		dst.Layout.DragHysteresis = src.Layout.DragHysteresis
	}
	if strings.TrimSpace(src.Layout.PerspectiveFile) != "" {
		dst.Layout.PerspectiveFile = strings.TrimSpace(src.Layout.PerspectiveFile)
	}
	if src.Layout.UndoMaxDepth > 0 {
		dst.Layout.UndoMaxDepth = src.Layout.UndoMaxDepth
	}
	if src.Layout.UndoMaxBytes > 0 {
		dst.Layout.UndoMaxBytes = src.Layout.UndoMaxBytes
	}
	if src.Layout.UndoCoalesceMs > 0 {
		dst.Layout.UndoCoalesceMs = src.Layout.UndoCoalesceMs
	}
	if strings.TrimSpace(src.Store.Driver) != "" {
		dst.Store.Driver = strings.ToLower(strings.TrimSpace(src.Store.Driver))
	}
	if strings.TrimSpace(src.Store.SQLitePath) != "" {
		dst.Store.SQLitePath = strings.TrimSpace(src.Store.SQLitePath)
	}
	if strings.TrimSpace(src.Store.PostgresDSN) != "" {
		dst.Store.PostgresDSN = strings.TrimSpace(src.Store.PostgresDSN)
	}
	if src.Store.KeepHistory > 0 {
		dst.Store.KeepHistory = src.Store.KeepHistory
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	dst.Logging.Color = src.Logging.Color
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvWorkspace)); v != "" {
		cfg.General.Workspace = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDragHysteresis)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Layout.DragHysteresis = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreDriver)); v != "" {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStoreDSN)); v != "" {
		if cfg.Store.Driver == "postgres" {
			cfg.Store.PostgresDSN = v
		} else {
			cfg.Store.SQLitePath = v
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogColor)); v != "" {
		cfg.Logging.Color = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	var env string
	switch key {
	case "general.workspace":
		env = EnvWorkspace
	case "layout.drag_hysteresis":
		env = EnvDragHysteresis
	case "store.driver":
		env = EnvStoreDriver
	case "store.sqlite_path", "store.postgres_dsn":
		env = EnvStoreDSN
	case "logging.level":
		env = EnvLogLevel
	case "logging.format":
		env = EnvLogFormat
	case "logging.source":
		env = EnvLogSource
	case "logging.file":
		env = EnvLogFile
	case "logging.color":
		env = EnvLogColor
	default:
		return "", false
	}
	if os.Getenv(env) != "" {
		return env, true
	}
	return "", false
}

// CoalesceWindow returns the undo coalescing interval.
func (l LayoutConfig) CoalesceWindow() time.Duration {
	if l.UndoCoalesceMs <= 0 {
		return time.Duration(Defaults().Layout.UndoCoalesceMs) * time.Millisecond
	}
	return time.Duration(l.UndoCoalesceMs) * time.Millisecond
}

// ResolveSQLitePath returns the configured database file or the default one
// next to the config file.
func (s StoreConfig) ResolveSQLitePath() (string, error) {
	if s.SQLitePath != "" {
		return s.SQLitePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "perspectives.db"), nil
}

// PostgresURL returns the DSN with password filled in, if one is given.
func (s StoreConfig) PostgresURL(password string) (string, error) {
	if s.PostgresDSN == "" {
		return "", errors.New("store.postgres_dsn is not configured")
	}
	if password == "" {
		return s.PostgresDSN, nil
	}
	u, err := url.Parse(s.PostgresDSN)
	if err != nil {
		return "", fmt.Errorf("parse postgres dsn: %w", err)
	}
	name := ""
	if u.User != nil {
		name = u.User.Username()
	}
	u.User = url.UserPassword(name, password)
	return u.String(), nil
}

// StripPassword removes any password from a URL-style DSN so it is safe to
// write to disk. Non-URL DSNs are returned unchanged.
func StripPassword(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		return dsn
	}
	if _, ok := u.User.Password(); !ok {
		return dsn
	}
	u.User = url.User(u.User.Username())
	return u.String()
}
