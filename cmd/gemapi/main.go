package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"gemapi/internal/app"
	"gemapi/internal/config"
	"gemapi/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Fatalf("读取 .env 失败: %v", err)
	}
	cfg, err := config.Load(os.Getenv("GEMAPI_CONFIG"))
	if err != nil {
		// 缺少 API key 时在监听端口之前退出
		log.Fatalf("读取配置失败: %v", err)
	}
	logFile, err := openLogFile(cfg.App.LogPath)
	if err != nil {
		log.Fatalf("初始化日志文件失败: %v", err)
	}
	var out io.Writer = os.Stdout
	if logFile != nil {
		defer logFile.Close()
		out = io.MultiWriter(os.Stdout, logFile)
		log.SetOutput(out)
	}
	logger.UseJSON(out, cfg.App.LogJSON)
	logger.SetLevel(cfg.App.LogLevel)

	llmFile, err := openLogFile(cfg.App.LLMLog)
	if err != nil {
		log.Fatalf("初始化 LLM 日志失败: %v", err)
	}
	if llmFile != nil {
		defer llmFile.Close()
		logger.SetLLMWriter(llmFile)
	}
	logger.EnableLLMPayloadDump(cfg.App.LLMDump)
	logger.Infof("✓ 配置加载成功（环境=%s，模型=%s）", cfg.App.Env, cfg.Gemini.Model)

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("初始化应用失败: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("运行失败: %v", err)
	}
}

func openLogFile(path string) (*os.File, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, nil
	}
	if dir := filepath.Dir(trimmed); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(trimmed, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
