package chats

import (
	"chatledger/sources/configuration"
	"chatledger/sources/localcache"
	"chatledger/sources/metrics"
	"chatledger/sources/tracing"

	"go.uber.org/fx"
)

var Module = fx.Module("chats",
	fx.Provide(
		NewMetadataCache,
		func(config *configuration.Config) ChatSource {
			return NewExportSource(config.Paths.ExportsDir)
		},
		func(source ChatSource, metadata *localcache.Store[Metadata], config *configuration.Config, metrics *metrics.MetricsService, log *tracing.Logger) *Recorder {
			return NewRecorder(source, metadata, config.Paths.ChatsDir, metrics, log)
		},
	),
)

// NewMetadataCache opens the video id -> metadata cache filled by the downloader.
func NewMetadataCache(config *configuration.Config, log *tracing.Logger) (*localcache.Store[Metadata], error) {
	path := config.Paths.MetadataCache

	cache, err := localcache.Open[Metadata](path)
	if err != nil {
		log.E("Failed to open metadata cache", tracing.InnerError, err, tracing.CachePath, path)
		return nil, err
	}

	log.I("Metadata cache loaded", tracing.CachePath, path, "entries", cache.Len())
	return cache, nil
}
