package app

import (
	"context"
	"fmt"

	"gemapi/internal/config"
	"gemapi/internal/logger"
	"gemapi/internal/transport/http/api"

	"golang.org/x/sync/errgroup"
)

// App 负责应用级编排：配置 → 依赖 → HTTP 服务。
type App struct {
	cfg     *config.Config
	server  *api.Server
	cleanup func()
	Summary *StartupSummary
}

func newApp(cfg *config.Config, server *api.Server) *App {
	return &App{cfg: cfg, server: server, Summary: newStartupSummary(cfg)}
}

// NewApp 根据配置构建应用对象（不监听端口）。
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	logger.SetLevel(cfg.App.LogLevel)
	a, cleanup, err := buildAppWithWire(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.cleanup = cleanup
	return a, nil
}

// Run 启动 HTTP 服务，直到 ctx 取消。
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.cfg == nil || a.server == nil {
		return fmt.Errorf("app not initialized")
	}
	defer a.Close()
	if a.Summary != nil {
		a.Summary.Print()
	}
	if config.Watch(a.cfg, func(next *config.Config) {
		logger.SetLevel(next.App.LogLevel)
		logger.Infof("配置已重新加载 log_level=%s", next.App.LogLevel)
	}, func(err error) {
		logger.Warnf("%v", err)
	}) {
		logger.Infof("watching config file %s", a.cfg.Path())
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := a.server.Start(ctx); err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
		return nil
	})
	return group.Wait()
}

// Close 释放推理客户端等资源，可重复调用。
func (a *App) Close() {
	if a == nil || a.cleanup == nil {
		return
	}
	a.cleanup()
	a.cleanup = nil
}

// Server 暴露 HTTP 服务（测试用）。
func (a *App) Server() *api.Server {
	if a == nil {
		return nil
	}
	return a.server
}
