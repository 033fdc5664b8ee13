package policy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	domainPolicy "github.com/NeuralTrust/CorsGate/pkg/domain/policy"
	"github.com/NeuralTrust/CorsGate/pkg/infra/cache"
	"github.com/NeuralTrust/CorsGate/pkg/infra/httpx"
	"github.com/NeuralTrust/CorsGate/pkg/infra/prometheus"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const reloadKey = "reload"

type ReloadResult struct {
	Version       uint64 `json:"version"`
	Registrations int    `json:"registrations"`
	// Origin of the persisted policies: "database" or "redis"
	PersistedFrom string `json:"persisted_from"`
}

//go:generate mockery --name=Loader --dir=. --output=./mocks --filename=policy_loader_mock.go --case=underscore --with-expecter
type Loader interface {
	Reload(ctx context.Context) (*ReloadResult, error)
}

type loader struct {
	logger  *logrus.Logger
	store   Store
	repo    domainPolicy.Repository
	cache   cache.Client
	breaker httpx.CircuitBreaker
	static  []Registration
	group   singleflight.Group
}

// NewLoader builds a Loader that combines static registrations with the
// enabled policies in the repository. Persisted policies override static ones
// registered for the same pattern.
func NewLoader(
	logger *logrus.Logger,
	store Store,
	repo domainPolicy.Repository,
	c cache.Client,
	breaker httpx.CircuitBreaker,
	static []Registration,
) Loader {
	return &loader{
		logger:  logger,
		store:   store,
		repo:    repo,
		cache:   c,
		breaker: breaker,
		static:  static,
	}
}

// Reload rebuilds the store snapshot. Concurrent callers share one reload. On
// failure the active snapshot is left untouched.
func (l *loader) Reload(ctx context.Context) (*ReloadResult, error) {
	v, err, shared := l.group.Do(reloadKey, func() (interface{}, error) {
		return l.reload(ctx)
	})
	if err != nil {
		prometheus.PolicyReloadsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if shared {
		l.logger.Debug("joined in-flight policy reload")
	}
	result, ok := v.(*ReloadResult)
	if !ok {
		return nil, fmt.Errorf("unexpected reload result %T", v)
	}
	return result, nil
}

func (l *loader) reload(ctx context.Context) (*ReloadResult, error) {
	persisted, from, err := l.loadPersisted(ctx)
	if err != nil {
		return nil, err
	}

	regs := make([]Registration, 0, len(l.static)+len(persisted))
	overridden := make(map[string]struct{}, len(persisted))
	for _, reg := range persisted {
		overridden[reg.Pattern] = struct{}{}
	}
	for _, reg := range l.static {
		if _, ok := overridden[reg.Pattern]; ok {
			l.logger.WithField("pattern", reg.Pattern).Info("static cors policy overridden by persisted policy")
			continue
		}
		regs = append(regs, reg)
	}
	regs = append(regs, persisted...)

	if err := l.store.Replace(regs); err != nil {
		return nil, fmt.Errorf("failed to replace policy snapshot: %w", err)
	}
	if from == "database" {
		l.mirror(ctx, persisted)
	}

	result := &ReloadResult{
		Version:       l.store.Version(),
		Registrations: len(regs),
		PersistedFrom: from,
	}
	prometheus.PolicyReloadsTotal.WithLabelValues("success").Inc()
	prometheus.Policies.Set(float64(len(regs)))
	l.logger.WithFields(logrus.Fields{
		"version":       result.Version,
		"registrations": result.Registrations,
		"from":          from,
	}).Info("cors policies reloaded")
	return result, nil
}

// loadPersisted reads enabled policies through the breaker. When the database
// is unreachable the last copy mirrored to Redis is used instead.
func (l *loader) loadPersisted(ctx context.Context) ([]Registration, string, error) {
	var policies []domainPolicy.CorsPolicy
	dbErr := l.breaker.Execute(func() error {
		var err error
		policies, err = l.repo.ListEnabled(ctx)
		return err
	})
	if dbErr == nil {
		regs := make([]Registration, 0, len(policies))
		for i := range policies {
			regs = append(regs, FromEntity(&policies[i]))
		}
		return regs, "database", nil
	}

	l.logger.WithError(dbErr).WithField("breaker", l.breaker.State()).
		Warn("failed to load cors policies from database, trying redis mirror")
	regs, err := l.readMirror(ctx)
	if err != nil {
		return nil, "", errors.Join(dbErr, fmt.Errorf("redis mirror: %w", err))
	}
	return regs, "redis", nil
}

func (l *loader) mirror(ctx context.Context, regs []Registration) {
	if l.cache == nil {
		return
	}
	b, err := json.Marshal(regs)
	if err != nil {
		l.logger.WithError(err).Error("failed to encode cors policies for redis mirror")
		return
	}
	if err := l.cache.Set(ctx, cache.PoliciesKey, string(b), 0); err != nil {
		l.logger.WithError(err).Warn("failed to mirror cors policies to redis")
	}
}

func (l *loader) readMirror(ctx context.Context) ([]Registration, error) {
	if l.cache == nil {
		return nil, errors.New("no cache configured")
	}
	raw, err := l.cache.Get(ctx, cache.PoliciesKey)
	if err != nil {
		return nil, err
	}
	var regs []Registration
	if err := json.Unmarshal([]byte(raw), &regs); err != nil {
		return nil, fmt.Errorf("failed to decode cors policies: %w", err)
	}
	return regs, nil
}

// FromEntity converts a persisted policy into a store registration.
func FromEntity(p *domainPolicy.CorsPolicy) Registration {
	return Registration{
		ID:      p.ID.String(),
		Name:    p.Name,
		Pattern: p.PathPattern,
		Config:  p.ToConfig(),
		Source:  SourceDatabase,
	}
}
