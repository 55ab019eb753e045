package config

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey 表示未配置 GEMINI_API_KEY / GOOGLE_API_KEY。
var ErrMissingAPIKey = errors.New("gemini.api_key is required (set GEMINI_API_KEY)")

// validate 对配置进行基础校验。
func validate(c *Config) error {
	if c.Gemini.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.App.Port < 0 || c.App.Port > 65535 {
		return fmt.Errorf("app.port out of range: %d", c.App.Port)
	}
	if c.Upload.MaxBytes < 1024 {
		return fmt.Errorf("upload.max_bytes must be >= 1024")
	}
	return nil
}
