package dependency_container

import (
	"fmt"
	"reflect"

	"github.com/NeuralTrust/CorsGate/pkg/app/policy"
	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	appTelemetry "github.com/NeuralTrust/CorsGate/pkg/app/telemetry"
	"github.com/NeuralTrust/CorsGate/pkg/common"
	"github.com/NeuralTrust/CorsGate/pkg/config"
	handlers "github.com/NeuralTrust/CorsGate/pkg/handlers/http"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/event"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache/subscriber"
	"github.com/NeuralTrust/CorsGate/pkg/infra/database"
	"github.com/NeuralTrust/CorsGate/pkg/infra/httpx"
	"github.com/NeuralTrust/CorsGate/pkg/infra/jwt"
	"github.com/NeuralTrust/CorsGate/pkg/infra/metrics"
	"github.com/NeuralTrust/CorsGate/pkg/infra/prometheus"
	"github.com/NeuralTrust/CorsGate/pkg/infra/repository"
	infraTelemetry "github.com/NeuralTrust/CorsGate/pkg/infra/telemetry"
	"github.com/NeuralTrust/CorsGate/pkg/infra/telemetry/elasticsearch"
	"github.com/NeuralTrust/CorsGate/pkg/infra/telemetry/kafka"
	"github.com/NeuralTrust/CorsGate/pkg/middleware"
	"github.com/sirupsen/logrus"
)

const (
	storeBreakerName    = "policy-store"
	upstreamBreakerName = "upstream"
)

type Container struct {
	Cache               cache.Client
	RedisListener       cache.EventListener
	RedisPublisher      cache.EventPublisher
	PolicyStore         policy.Store
	PolicyLoader        policy.Loader
	PolicyScheduler     *policy.Scheduler
	MetricsWorker       metrics.Worker
	JWTManager          jwt.Manager
	HandlerTransport    *handlers.HandlerTransport
	MiddlewareTransport *middleware.Transport
}

type ContainerDI struct {
	Cfg            *config.Config
	Logger         *logrus.Logger
	DB             *database.DB
	EventsRegistry map[string]reflect.Type
}

func NewContainer(di ContainerDI) (*Container, error) {
	cfg := di.Cfg
	if di.EventsRegistry == nil {
		di.EventsRegistry = event.Registry
	}

	cacheInstance, err := cache.NewClient(cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TLS:      cfg.Redis.TLS,
	}, di.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %v", err)
	}
	redisPublisher := cache.NewRedisEventPublisher(cacheInstance)
	redisListener := cache.NewRedisEventListener(di.Logger, cacheInstance, di.EventsRegistry)

	prometheus.Initialize(prometheus.MetricsConfig{
		EnableLatency:   cfg.Metrics.EnableLatency,
		EnableDecisions: cfg.Metrics.EnableDecisions,
	})

	// telemetry
	exporterLocator := infraTelemetry.NewExporterLocator(
		infraTelemetry.WithExporter(kafka.ExporterName, kafka.NewKafkaExporter()),
		infraTelemetry.WithExporter(elasticsearch.ExporterName, elasticsearch.NewElasticsearchExporter()),
	)
	if err := appTelemetry.NewTelemetryExportersValidator(exporterLocator).Validate(cfg.Telemetry.Exporters); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}
	exporters, err := appTelemetry.NewTelemetryExportersBuilder(exporterLocator).Build(cfg.Telemetry.Exporters)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry exporters: %w", err)
	}
	dedupTTL := cfg.Telemetry.DedupTTL
	if dedupTTL <= 0 {
		dedupTTL = common.DefaultDedupTTL
	}
	metricsWorker := metrics.NewWorker(
		di.Logger,
		exporters,
		cacheInstance.CreateTTLMap(cache.ViolationsTTLName, dedupTTL),
		cfg.Server.NodeID,
	)

	// policy
	pathMatcher := routing.NewPathMatcher()
	policyRepository := repository.NewPolicyRepository(di.DB.DB)
	policyStore := policy.NewStore(
		di.Logger,
		pathMatcher,
		cfg.Cors.PermitDefaults,
		policy.WithLayering(cfg.Cors.Layered),
	)
	policyLoader := policy.NewLoader(
		di.Logger,
		policyStore,
		policyRepository,
		cacheInstance,
		httpx.NewCircuitBreaker(storeBreakerName, cfg.Upstream.BreakerTimeout, cfg.Upstream.MaxFailures),
		StaticRegistrations(cfg.Cors.Policies),
	)
	policyScheduler, err := policy.NewScheduler(di.Logger, policyLoader, cfg.Cors.ReloadSchedule)
	if err != nil {
		return nil, err
	}
	policyCreator := policy.NewCreator(di.Logger, policyRepository, pathMatcher, redisPublisher)
	policyUpdater := policy.NewUpdater(di.Logger, policyRepository, pathMatcher, redisPublisher)
	policyDeleter := policy.NewDeleter(di.Logger, policyRepository, redisPublisher)

	cache.RegisterEventSubscriber[event.PoliciesChangedEvent](
		redisListener,
		subscriber.NewPoliciesChangedEventSubscriber(di.Logger, policyLoader),
	)
	cache.RegisterEventSubscriber[event.ReloadPoliciesEvent](
		redisListener,
		subscriber.NewReloadPoliciesEventSubscriber(di.Logger, policyLoader, cfg.Server.NodeID),
	)

	jwtManager := jwt.NewJwtManager(cfg.Server.SecretKey, cfg.Server.TokenTTL)

	handlerTransport := &handlers.HandlerTransport{
		// proxy
		ForwardedHandler: handlers.NewForwardedHandler(
			di.Logger,
			cfg.Upstream,
			httpx.NewCircuitBreaker(upstreamBreakerName, cfg.Upstream.BreakerTimeout, cfg.Upstream.MaxFailures),
		),
		// policies
		CreatePolicyHandler:   handlers.NewCreatePolicyHandler(di.Logger, policyCreator),
		ListPoliciesHandler:   handlers.NewListPoliciesHandler(di.Logger, policyRepository),
		ActivePoliciesHandler: handlers.NewActivePoliciesHandler(policyStore),
		GetPolicyHandler:      handlers.NewGetPolicyHandler(di.Logger, policyRepository),
		UpdatePolicyHandler:   handlers.NewUpdatePolicyHandler(di.Logger, policyUpdater),
		DeletePolicyHandler:   handlers.NewDeletePolicyHandler(di.Logger, policyDeleter),
		EvaluatePolicyHandler: handlers.NewEvaluatePolicyHandler(di.Logger, policyStore),
		ReloadPoliciesHandler: handlers.NewReloadPoliciesHandler(di.Logger, policyLoader, redisPublisher, cfg.Server.NodeID),
		// system
		GetVersionHandler: handlers.NewGetVersionHandler(di.Logger),
		HealthHandler:     handlers.NewHealthHandler(policyStore),
	}

	middlewareTransport := &middleware.Transport{
		AdminAuthMiddleware:    middleware.NewAdminAuthMiddleware(di.Logger, jwtManager),
		CorsMiddleware:         middleware.NewCorsMiddleware(di.Logger, policyStore, cfg.Cors.Strict),
		MetricsMiddleware:      middleware.NewMetricsMiddleware(di.Logger, metricsWorker),
		PanicRecoverMiddleware: middleware.NewPanicRecoverMiddleware(di.Logger),
	}

	return &Container{
		Cache:               cacheInstance,
		RedisListener:       redisListener,
		RedisPublisher:      redisPublisher,
		PolicyStore:         policyStore,
		PolicyLoader:        policyLoader,
		PolicyScheduler:     policyScheduler,
		MetricsWorker:       metricsWorker,
		JWTManager:          jwtManager,
		HandlerTransport:    handlerTransport,
		MiddlewareTransport: middlewareTransport,
	}, nil
}

// StaticRegistrations converts the policies declared in the config file.
func StaticRegistrations(policies []config.StaticPolicy) []policy.Registration {
	regs := make([]policy.Registration, 0, len(policies))
	for _, p := range policies {
		regs = append(regs, policy.Registration{
			Name:    p.Name,
			Pattern: p.Pattern,
			Config:  p.Config,
			Source:  policy.SourceStatic,
		})
	}
	return regs
}
