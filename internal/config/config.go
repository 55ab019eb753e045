package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

var envBindings = map[string][]string{
	"app.env":              {"APP_ENV"},
	"app.log_level":        {"LOG_LEVEL"},
	"app.log_json":         {"LOG_JSON"},
	"app.log_path":         {"LOG_PATH"},
	"app.llm_log_path":     {"LLM_LOG_PATH"},
	"app.llm_dump_payload": {"LLM_DUMP_PAYLOAD"},
	"app.port":             {"PORT"},
	"gemini.api_key":       {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"gemini.model":         {"GEMINI_MODEL"},
	"gemini.image_prompt":  {"GEMINI_IMAGE_PROMPT"},
	"upload.dir":           {"UPLOAD_DIR"},
	"upload.max_bytes":     {"UPLOAD_MAX_BYTES"},
}

// LoadDotEnv 把 .env 文件中的变量写入进程环境；已存在的变量不会被覆盖，文件不存在时忽略。
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s failed: %w", p, err)
		}
	}
	return nil
}

// Load 读取可选的 YAML 配置文件并叠加环境变量，环境变量优先。
// path 为空时只使用环境变量。
func Load(path string) (*Config, error) {
	v, err := newViper(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	cfg.path = strings.TrimSpace(path)
	cfg.v = v
	return cfg, nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	for key, envs := range envBindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("binding env for %s failed: %w", key, err)
		}
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return v, nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file failed (%s): %w", path, err)
	}
	return v, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "toml"
		dc.WeaklyTypedInput = true
	}); err != nil {
		return nil, fmt.Errorf("parsing config failed: %w", err)
	}
	cfg.applyDefaults()
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch 在使用配置文件时监听其变化，并把重新解析后的配置交给 onChange。
// 解析失败的修改只会回调 onError。返回 false 表示没有可监听的文件。
func Watch(cfg *Config, onChange func(*Config), onError func(error)) bool {
	if cfg == nil || cfg.v == nil || cfg.path == "" || onChange == nil {
		return false
	}
	v := cfg.v
	v.OnConfigChange(func(evt fsnotify.Event) {
		if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config reload failed (%s): %w", evt.Name, err))
			}
			return
		}
		next.path = cfg.path
		next.v = v
		onChange(next)
	})
	v.WatchConfig()
	return true
}
