package metrics

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/NeuralTrust/CorsGate/pkg/domain/telemetry"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/metrics/metric_events"
	"github.com/NeuralTrust/CorsGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/CorsGate/pkg/utils"
	"github.com/sirupsen/logrus"
)

const (
	taskQueueSize = 1000
	exportTimeout = 10 * time.Second
)

// RequestMeta carries what the worker needs beyond the CORS request itself.
type RequestMeta struct {
	StatusCode     int
	IP             string
	AcceptLanguage string
	PolicyVersion  uint64
	Elapsed        time.Duration
}

//go:generate mockery --name=Worker --dir=. --output=./mocks --filename=worker_mock.go --case=underscore --with-expecter
type Worker interface {
	StartWorkers(n int)
	Process(req cors.Request, decision cors.Decision, meta RequestMeta)
	Shutdown()
}

type worker struct {
	logger    *logrus.Logger
	exporters []telemetry.Exporter
	dedup     *cache.TTLMap
	nodeID    string
	taskChan  chan func()
	wg        sync.WaitGroup
	closed    atomic.Bool
	closeOnce sync.Once
}

// NewWorker ships violation events to exporters from a fixed pool. A non-nil
// dedup map suppresses repeats of the same origin, reason and path until the
// entry expires.
func NewWorker(
	logger *logrus.Logger,
	exporters []telemetry.Exporter,
	dedup *cache.TTLMap,
	nodeID string,
) Worker {
	return &worker{
		logger:    logger,
		exporters: exporters,
		dedup:     dedup,
		nodeID:    nodeID,
		taskChan:  make(chan func(), taskQueueSize),
	}
}

func (m *worker) StartWorkers(n int) {
	m.logger.WithField("workers", n).Info("starting metrics workers")
	for i := 0; i < n; i++ {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			for task := range m.taskChan {
				task()
			}
		}()
	}
}

// Shutdown stops accepting tasks, drains the queue and closes the exporters.
func (m *worker) Shutdown() {
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		m.logger.Info("shutting down metrics workers")
		close(m.taskChan)
		m.wg.Wait()
		for _, e := range m.exporters {
			e.Close()
		}
		m.logger.Info("metrics workers stopped")
	})
}

func (m *worker) Process(req cors.Request, decision cors.Decision, meta RequestMeta) {
	m.enqueueTask(func() {
		m.registryMetricsToPrometheus(req.Method, decision, meta)
	})

	if !decision.Rejected() || len(m.exporters) == 0 {
		return
	}
	evt := m.feedEvent(req, decision, meta)
	if m.dedup != nil && !m.dedup.SetIfAbsent(evt.DedupKey(), evt.ID) {
		return
	}
	if !m.enqueueTask(func() { m.registryMetricsToExporters(evt) }) {
		prometheus.ViolationEventsDropped.Inc()
	}
}

func (m *worker) registryMetricsToPrometheus(method string, decision cors.Decision, meta RequestMeta) {
	prometheus.RequestsTotal.WithLabelValues(method, getStatusClass(meta.StatusCode)).Inc()
	if prometheus.Config.EnableLatency && meta.Elapsed > 0 {
		prometheus.RequestLatency.WithLabelValues("total").Observe(float64(meta.Elapsed.Milliseconds()))
	}
	if prometheus.Config.EnableDecisions {
		prometheus.CorsDecisionsTotal.WithLabelValues(
			decision.Outcome.String(),
			cors.ReasonCode(decision.Reason),
			strconv.FormatBool(decision.Preflight),
		).Inc()
	}
}

func (m *worker) registryMetricsToExporters(evt *metric_events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	var failedExporters []string
	for _, exporter := range m.exporters {
		if err := exporter.Handle(ctx, evt); err != nil {
			m.logger.WithFields(logrus.Fields{
				"exporter": exporter.Name(),
				"origin":   evt.Origin,
				"reason":   evt.Reason,
			}).WithError(err).Error("exporter failed")
			failedExporters = append(failedExporters, exporter.Name())
		}
	}
	if len(failedExporters) > 0 {
		m.logger.WithField("failedExporters", failedExporters).
			Warnf("%d exporters failed to handle violation event", len(failedExporters))
	}
}

func (m *worker) enqueueTask(task func()) (ok bool) {
	if m.closed.Load() {
		return false
	}
	// Shutdown may close the channel between the check and the send.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case m.taskChan <- task:
		return true
	default:
		m.logger.Warn("taskChan is full, dropping metrics task")
		return false
	}
}

func (m *worker) feedEvent(req cors.Request, decision cors.Decision, meta RequestMeta) *metric_events.Event {
	evt := metric_events.NewViolationEvent()
	evt.NodeID = m.nodeID
	evt.Origin = req.Origin
	evt.Host = req.Host
	evt.Path = req.Path
	evt.Method = req.Method
	evt.RequestedMethod = req.AccessControlRequestMethod
	evt.RequestedHeaders = req.AccessControlRequestHeaders
	evt.Preflight = decision.Preflight
	evt.Reason = cors.ReasonCode(decision.Reason)
	evt.PolicyVersion = meta.PolicyVersion
	evt.StatusCode = meta.StatusCode
	evt.IP = meta.IP

	if ua := utils.ParseUserAgent(req.UserAgent, meta.AcceptLanguage); ua != nil {
		evt.Browser = ua.Browser
		evt.Device = ua.Device
		evt.Os = ua.OS
		evt.Locale = ua.Locale
	}
	return evt
}

func getStatusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}
	return fmt.Sprintf("%dxx", code/100)
}
