package telemetry

// ExporterConfig selects an exporter by name; Settings are decoded by the
// exporter itself.
type ExporterConfig struct {
	Name     string                 `json:"name" mapstructure:"name"`
	Settings map[string]interface{} `json:"settings" mapstructure:"settings"`
}
