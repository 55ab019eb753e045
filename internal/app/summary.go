package app

import (
	"fmt"
	"strings"

	"gemapi/internal/config"
)

// StartupSummary 汇总启动时生效的关键配置，密钥只显示末 4 位。
type StartupSummary struct {
	Env         string
	Addr        string
	Model       string
	APIKey      string
	UploadDir   string
	MaxUpload   int64
	ImagePrompt string
}

func newStartupSummary(cfg *config.Config) *StartupSummary {
	return &StartupSummary{
		Env:         cfg.App.Env,
		Addr:        cfg.App.HTTPAddr(),
		Model:       cfg.Gemini.Model,
		APIKey:      maskKey(cfg.Gemini.APIKey),
		UploadDir:   cfg.Upload.Dir,
		MaxUpload:   cfg.Upload.MaxBytes,
		ImagePrompt: cfg.Gemini.ImagePrompt,
	}
}

func (s *StartupSummary) String() string {
	var b strings.Builder
	b.WriteString(strings.Repeat("=", 60) + "\n")
	b.WriteString("启动配置摘要 (STARTUP SUMMARY)\n")
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "  环境:       %s\n", s.Env)
	fmt.Fprintf(&b, "  监听地址:   %s\n", s.Addr)
	fmt.Fprintf(&b, "  模型:       %s\n", s.Model)
	fmt.Fprintf(&b, "  API Key:    %s\n", s.APIKey)
	fmt.Fprintf(&b, "  上传目录:   %s\n", s.UploadDir)
	fmt.Fprintf(&b, "  上传上限:   %d bytes\n", s.MaxUpload)
	fmt.Fprintf(&b, "  默认图像提示: %s\n", s.ImagePrompt)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	return b.String()
}

func (s *StartupSummary) Print() {
	fmt.Print(s.String())
}

func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
