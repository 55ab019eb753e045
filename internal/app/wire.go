//go:build wireinject

package app

import (
	"context"

	"gemapi/internal/config"
	"gemapi/internal/gateway/provider"

	"github.com/google/wire"
)

func buildAppWithWire(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		provideGemini,
		wire.Bind(new(provider.Generator), new(*provider.Gemini)),
		provideStager,
		provideService,
		provideServer,
		newApp,
	)
	return nil, nil, nil
}
