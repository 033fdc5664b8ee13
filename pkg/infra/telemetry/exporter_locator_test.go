package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	"github.com/NeuralTrust/CorsGate/pkg/infra/metrics/metric_events"
	"github.com/stretchr/testify/assert"
)

type mockExporter struct {
	name                 string
	validateErr          error
	withSettingsErr      error
	withSettingsExporter telemetry.Exporter
}

func newMockExporter(name string) *mockExporter {
	return &mockExporter{name: name}
}

func (m *mockExporter) Name() string {
	return m.name
}

func (m *mockExporter) ValidateConfig(settings map[string]interface{}) error {
	return m.validateErr
}

func (m *mockExporter) Handle(ctx context.Context, evt *metric_events.Event) error {
	return nil
}

func (m *mockExporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	if m.withSettingsErr != nil {
		return nil, m.withSettingsErr
	}
	if m.withSettingsExporter != nil {
		return m.withSettingsExporter, nil
	}
	return m, nil
}

func (m *mockExporter) Close() {}

func TestNewExporterLocator_NoOptions(t *testing.T) {
	locator := NewExporterLocator()

	assert.NotNil(t, locator)
	assert.Empty(t, locator.exporters)
}

func TestNewExporterLocator_WithExporter_OverwritesSameName(t *testing.T) {
	exporter1 := newMockExporter("exporter")
	exporter2 := newMockExporter("exporter")

	locator := NewExporterLocator(
		WithExporter("exporter", exporter1),
		WithExporter("exporter", exporter2),
	)

	assert.Len(t, locator.exporters, 1)
	assert.Equal(t, exporter2, locator.exporters["exporter"])
}

func TestGetExporter(t *testing.T) {
	tests := []struct {
		name    string
		base    *mockExporter
		cfg     telemetry.ExporterConfig
		wantErr string
	}{
		{
			name: "it should return the configured exporter",
			base: newMockExporter("kafka"),
			cfg:  telemetry.ExporterConfig{Name: "kafka", Settings: map[string]interface{}{"host": "localhost"}},
		},
		{
			name:    "it should fail on unknown exporters",
			base:    newMockExporter("kafka"),
			cfg:     telemetry.ExporterConfig{Name: "unknown"},
			wantErr: "unknown exporter: unknown",
		},
		{
			name:    "it should fail when settings are invalid",
			base:    &mockExporter{name: "kafka", validateErr: errors.New("kafka topic is required")},
			cfg:     telemetry.ExporterConfig{Name: "kafka"},
			wantErr: "kafka topic is required",
		},
		{
			name:    "it should fail when the exporter cannot be built",
			base:    &mockExporter{name: "kafka", withSettingsErr: errors.New("failed to create kafka producer")},
			cfg:     telemetry.ExporterConfig{Name: "kafka"},
			wantErr: "failed to create kafka producer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configured := newMockExporter("configured")
			tt.base.withSettingsExporter = configured
			locator := NewExporterLocator(WithExporter("kafka", tt.base))

			result, err := locator.GetExporter(tt.cfg)

			if tt.wantErr != "" {
				assert.Nil(t, result)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, configured, result)
		})
	}
}

func TestValidateExporter(t *testing.T) {
	locator := NewExporterLocator(WithExporter("kafka", newMockExporter("kafka")))

	assert.NoError(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "kafka"}))
	assert.Error(t, locator.ValidateExporter(telemetry.ExporterConfig{Name: "unknown"}))
}
