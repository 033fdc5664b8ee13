package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	"github.com/NeuralTrust/CorsGate/pkg/infra/metrics/metric_events"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/mitchellh/mapstructure"
)

const (
	ExporterName = "elasticsearch"
	defaultIndex = "cors-violations"
)

type Config struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	// Index prefix, documents go to <index>-YYYY.MM.DD
	Index string `mapstructure:"index"`
}

type Exporter struct {
	cfg    Config
	client *elasticsearch.Client
}

func NewElasticsearchExporter() *Exporter {
	return &Exporter{}
}

func (e *Exporter) Name() string {
	return ExporterName
}

func (e *Exporter) ValidateConfig(settings map[string]interface{}) error {
	conf, err := decode(settings)
	if err != nil {
		return err
	}
	if len(conf.Addresses) == 0 {
		return errors.New("elasticsearch addresses are required")
	}
	if conf.Username != "" && conf.Password == "" {
		return errors.New("elasticsearch password is required when username is set")
	}
	return nil
}

func (e *Exporter) WithSettings(settings map[string]interface{}) (telemetry.Exporter, error) {
	conf, err := decode(settings)
	if err != nil {
		return nil, err
	}
	if conf.Index == "" {
		conf.Index = defaultIndex
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: conf.Addresses,
		Username:  conf.Username,
		Password:  conf.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Exporter{cfg: conf, client: client}, nil
}

func (e *Exporter) Handle(ctx context.Context, evt *metric_events.Event) error {
	if e.client == nil {
		return errors.New("elasticsearch client is not initialized")
	}
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	req := esapi.IndexRequest{
		Index:      IndexName(e.cfg.Index, time.Unix(evt.Timestamp, 0)),
		DocumentID: evt.ID,
		Body:       bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("elasticsearch index error: %s", res.String())
	}
	return nil
}

func (e *Exporter) Close() {}

// IndexName returns the daily index for prefix.
func IndexName(prefix string, t time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, t.UTC().Format("2006.01.02"))
}

func decode(settings map[string]interface{}) (Config, error) {
	var conf Config
	if err := mapstructure.WeakDecode(settings, &conf); err != nil {
		return conf, fmt.Errorf("invalid elasticsearch config: %w", err)
	}
	return conf, nil
}
