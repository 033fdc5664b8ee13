package telemetry

import (
	domain "github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	factory "github.com/NeuralTrust/CorsGate/pkg/infra/telemetry"
)

type ExportersValidator interface {
	Validate(configs []domain.ExporterConfig) error
}

type exportersValidator struct {
	locator *factory.ExporterLocator
}

func NewTelemetryExportersValidator(locator *factory.ExporterLocator) ExportersValidator {
	return &exportersValidator{
		locator: locator,
	}
}

func (v *exportersValidator) Validate(configs []domain.ExporterConfig) error {
	for _, config := range configs {
		if err := v.locator.ValidateExporter(config); err != nil {
			return err
		}
	}
	return nil
}
