package telemetry

import (
	"fmt"

	domain "github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	factory "github.com/NeuralTrust/CorsGate/pkg/infra/telemetry"
)

type ExportersBuilder interface {
	Build(configs []domain.ExporterConfig) ([]domain.Exporter, error)
}

type exportersBuilder struct {
	locator *factory.ExporterLocator
}

func NewTelemetryExportersBuilder(locator *factory.ExporterLocator) ExportersBuilder {
	return &exportersBuilder{locator: locator}
}

// Build returns one configured exporter per entry. Already built exporters are
// closed when a later one fails.
func (b *exportersBuilder) Build(configs []domain.ExporterConfig) ([]domain.Exporter, error) {
	exporters := make([]domain.Exporter, 0, len(configs))
	for _, cfg := range configs {
		exporter, err := b.locator.GetExporter(cfg)
		if err != nil {
			for _, e := range exporters {
				e.Close()
			}
			return nil, fmt.Errorf("telemetry exporter %s: %w", cfg.Name, err)
		}
		exporters = append(exporters, exporter)
	}
	return exporters, nil
}
