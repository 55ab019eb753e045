package config

import (
	"os"
	"path/filepath"
	"strings"
)

// 默认值常量
const (
	defaultAppEnv         = "dev"
	defaultAppLogLevel    = "info"
	defaultAppPort        = 3000
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultImagePrompt    = "Describe this image"
	defaultUploadMaxBytes = 20 << 20
	defaultUploadSubdir   = "gemapi-uploads"
)

func (c *Config) applyDefaults() {
	c.App.applyDefaults()
	c.Gemini.applyDefaults()
	c.Upload.applyDefaults()
}

func (a *AppConfig) applyDefaults() {
	if strings.TrimSpace(a.Env) == "" {
		a.Env = defaultAppEnv
	}
	if strings.TrimSpace(a.LogLevel) == "" {
		a.LogLevel = defaultAppLogLevel
	}
	if a.Port == 0 {
		a.Port = defaultAppPort
	}
}

func (g *GeminiConfig) applyDefaults() {
	g.APIKey = strings.TrimSpace(g.APIKey)
	if strings.TrimSpace(g.Model) == "" {
		g.Model = defaultGeminiModel
	}
	if strings.TrimSpace(g.ImagePrompt) == "" {
		g.ImagePrompt = defaultImagePrompt
	}
}

func (u *UploadConfig) applyDefaults() {
	if strings.TrimSpace(u.Dir) == "" {
		u.Dir = filepath.Join(os.TempDir(), defaultUploadSubdir)
	}
	if u.MaxBytes <= 0 {
		u.MaxBytes = defaultUploadMaxBytes
	}
}
