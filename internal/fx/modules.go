package fx

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/config"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/database"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/extract"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/ingest"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/logger"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/repository"
	"github.com/Hfcchase1/Valorant-Data-Analysis-4700-5700-Fall-2025/internal/vlr"
)

func ProvideExtractor(cfg *config.Config, log zerolog.Logger) *extract.Extractor {
	return extract.New(cfg.BaseURL, log)
}

// Module wires the full scraping pipeline.
var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// site access
	fx.Provide(vlr.NewClient),
	fx.Provide(vlr.NewDiscovery),
	// extraction
	fx.Provide(ProvideExtractor),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewEntityRepository),
	// orchestration
	fx.Provide(ingest.NewIngestor),
)
