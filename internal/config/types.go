package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config 是 gemapi 的主配置载体。
type Config struct {
	App    AppConfig    `toml:"app"`
	Gemini GeminiConfig `toml:"gemini"`
	Upload UploadConfig `toml:"upload"`

	path string
	v    *viper.Viper
}

type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogJSON  bool   `toml:"log_json"`
	LogPath  string `toml:"log_path"`
	LLMLog   string `toml:"llm_log_path"`
	LLMDump  bool   `toml:"llm_dump_payload"`
	Port     int    `toml:"port"`
}

// GeminiConfig 描述推理服务的访问方式。
type GeminiConfig struct {
	APIKey      string `toml:"api_key"`
	Model       string `toml:"model"`
	ImagePrompt string `toml:"image_prompt"`
}

// UploadConfig 控制上传文件的临时落盘位置与大小上限。
type UploadConfig struct {
	Dir      string `toml:"dir"`
	MaxBytes int64  `toml:"max_bytes"`
}

// HTTPAddr 返回监听地址（":<port>"）。
func (a AppConfig) HTTPAddr() string {
	return fmt.Sprintf(":%d", a.Port)
}

// Path 返回加载时使用的配置文件路径；纯环境变量模式下为空。
func (c *Config) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}
