package metrics

import (
	"context"
	"chatledger/sources/configuration"
	"chatledger/sources/platform"

	"go.uber.org/fx"
)

var Module = fx.Module("metrics",
	fx.Provide(
		NewMetricsService,
	),

	fx.Invoke(func(lc fx.Lifecycle, s *MetricsService, config *configuration.Config) {
		path := platform.Get("METRICS_TEXTFILE", config.Metrics.TextfilePath)
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return s.Flush(path)
			},
		})
	}),
)
