package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultTypingDelayMs    = 1500
	DefaultSessionTimeoutMs = 30000
	DefaultReaperIntervalMs = 60000
	DefaultBufSize          = 100

	// PhotoModeSheet uploads photos to the spreadsheet backend after the
	// record row exists; PhotoModeLocal writes them to a local directory.
	PhotoModeSheet = "sheet"
	PhotoModeLocal = "local"
)

type Config struct {
	Flow     FlowConfig     `json:"flow"`
	Sheet    SheetConfig    `json:"sheet"`
	Photo    PhotoConfig    `json:"photo"`
	Channels ChannelsConfig `json:"channels"`
}

type FlowConfig struct {
	TypingDelayMs    int  `json:"typingDelayMs"`
	SessionTimeoutMs int  `json:"sessionTimeoutMs"`
	ReaperIntervalMs int  `json:"reaperIntervalMs"`
	PhotoStep        bool `json:"photoStep"`
}

func (f FlowConfig) TypingDelay() time.Duration {
	return time.Duration(f.TypingDelayMs) * time.Millisecond
}

func (f FlowConfig) SessionTimeout() time.Duration {
	return time.Duration(f.SessionTimeoutMs) * time.Millisecond
}

func (f FlowConfig) ReaperInterval() time.Duration {
	return time.Duration(f.ReaperIntervalMs) * time.Millisecond
}

type SheetConfig struct {
	URL       string `json:"url"`
	TimeoutMs int    `json:"timeoutMs,omitempty"`
}

type PhotoConfig struct {
	Mode string `json:"mode"` // "sheet" or "local"
	Dir  string `json:"dir,omitempty"`
}

type ChannelsConfig struct {
	WhatsApp WhatsAppConfig `json:"whatsapp"`
	Telegram TelegramConfig `json:"telegram"`
}

type WhatsAppConfig struct {
	Enabled   bool     `json:"enabled"`
	StorePath string   `json:"storePath,omitempty"`
	AllowFrom []string `json:"allowFrom"`
}

type TelegramConfig struct {
	Enabled   bool     `json:"enabled"`
	Token     string   `json:"token"`
	AllowFrom []string `json:"allowFrom"`
	Proxy     string   `json:"proxy,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Flow: FlowConfig{
			TypingDelayMs:    DefaultTypingDelayMs,
			SessionTimeoutMs: DefaultSessionTimeoutMs,
			ReaperIntervalMs: DefaultReaperIntervalMs,
			PhotoStep:        true,
		},
		Photo: PhotoConfig{
			Mode: PhotoModeSheet,
			Dir:  filepath.Join(ConfigDir(), "photos"),
		},
		Channels: ChannelsConfig{
			WhatsApp: WhatsAppConfig{Enabled: true},
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".diskdengue")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if url := os.Getenv("DISKDENGUE_SHEET_URL"); url != "" {
		cfg.Sheet.URL = url
	}
	if token := os.Getenv("DISKDENGUE_TELEGRAM_TOKEN"); token != "" {
		cfg.Channels.Telegram.Token = token
	}
	if mode := os.Getenv("DISKDENGUE_PHOTO_MODE"); mode != "" {
		cfg.Photo.Mode = mode
	}
	if dir := os.Getenv("DISKDENGUE_PHOTO_DIR"); dir != "" {
		cfg.Photo.Dir = dir
	}
	if ms := os.Getenv("DISKDENGUE_TYPING_DELAY_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil {
			cfg.Flow.TypingDelayMs = parsed
		}
	}
	if ms := os.Getenv("DISKDENGUE_SESSION_TIMEOUT_MS"); ms != "" {
		if parsed, err := strconv.Atoi(ms); err == nil {
			cfg.Flow.SessionTimeoutMs = parsed
		}
	}

	if cfg.Flow.TypingDelayMs <= 0 {
		cfg.Flow.TypingDelayMs = DefaultTypingDelayMs
	}
	if cfg.Flow.SessionTimeoutMs <= 0 {
		cfg.Flow.SessionTimeoutMs = DefaultSessionTimeoutMs
	}
	if cfg.Flow.ReaperIntervalMs <= 0 {
		cfg.Flow.ReaperIntervalMs = DefaultReaperIntervalMs
	}
	if cfg.Photo.Mode == "" {
		cfg.Photo.Mode = PhotoModeSheet
	}
	if cfg.Photo.Mode == PhotoModeLocal && cfg.Photo.Dir == "" {
		cfg.Photo.Dir = filepath.Join(ConfigDir(), "photos")
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0644)
}
