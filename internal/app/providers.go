package app

import (
	"context"

	"gemapi/internal/config"
	"gemapi/internal/gateway/provider"
	"gemapi/internal/generate"
	"gemapi/internal/logger"
	"gemapi/internal/transport/http/api"
	"gemapi/internal/upload"
)

func provideGemini(ctx context.Context, cfg *config.Config) (*provider.Gemini, func(), error) {
	g, err := provider.NewGemini(ctx, cfg.Gemini.APIKey)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := g.Close(); err != nil {
			logger.Warnf("close gemini client: %v", err)
		}
	}
	return g, cleanup, nil
}

func provideStager(cfg *config.Config) (*upload.Stager, error) {
	return upload.NewStager(cfg.Upload.Dir)
}

func provideService(gen provider.Generator, stager *upload.Stager, cfg *config.Config) (*generate.Service, error) {
	return generate.NewService(gen, stager, generate.Options{
		Model:       cfg.Gemini.Model,
		ImagePrompt: cfg.Gemini.ImagePrompt,
	})
}

func provideServer(cfg *config.Config, svc *generate.Service) (*api.Server, error) {
	return api.NewServer(api.ServerConfig{
		Addr:           cfg.App.HTTPAddr(),
		Service:        svc,
		MaxUploadBytes: cfg.Upload.MaxBytes,
	})
}

// NewAppWithGenerator 使用给定的 Generator 组装应用，跳过 Gemini 客户端（测试与本地调试用）。
func NewAppWithGenerator(cfg *config.Config, gen provider.Generator) (*App, error) {
	stager, err := provideStager(cfg)
	if err != nil {
		return nil, err
	}
	svc, err := provideService(gen, stager, cfg)
	if err != nil {
		return nil, err
	}
	server, err := provideServer(cfg, svc)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, server), nil
}
