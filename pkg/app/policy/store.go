package policy

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/sirupsen/logrus"
)

type Source string

const (
	SourceStatic   Source = "static"
	SourceDatabase Source = "database"
	SourceAPI      Source = "api"
)

var ErrDuplicatePattern = errors.New("duplicate path pattern")

// Registration maps a path pattern to a partially-populated CORS config.
type Registration struct {
	ID      string      `json:"id,omitempty"`
	Name    string      `json:"name,omitempty"`
	Pattern string      `json:"pattern"`
	Config  cors.Config `json:"config"`
	Source  Source      `json:"source"`
}

//go:generate mockery --name=Store --dir=. --output=./mocks --filename=policy_store_mock.go --case=underscore --with-expecter
type Store interface {
	Register(reg Registration) error
	Replace(regs []Registration) error
	Unregister(pattern string) bool
	Lookup(path string) (*cors.Policy, bool)
	Registrations() []Registration
	Version() uint64
}

type snapshot struct {
	version uint64
	// most specific first
	regs []Registration
	// compiled policies keyed by the joined list of matching patterns
	compiled sync.Map
}

type compiledEntry struct {
	policy *cors.Policy
}

type store struct {
	logger         *logrus.Logger
	matcher        routing.PathMatcher
	permitDefaults bool
	layered        bool

	mu      sync.Mutex
	current atomic.Pointer[snapshot]
}

type StoreOption func(*store)

// WithLayering makes every matching registration contribute to the effective
// policy, broadest first, instead of only the most specific one.
func WithLayering(enabled bool) StoreOption {
	return func(s *store) {
		s.layered = enabled
	}
}

// NewStore returns an empty store. With permitDefaults enabled, fields left
// unset by the resolved registration resolve to cors.PermitDefaults().
func NewStore(logger *logrus.Logger, matcher routing.PathMatcher, permitDefaults bool, opts ...StoreOption) Store {
	s := &store{
		logger:         logger,
		matcher:        matcher,
		permitDefaults: permitDefaults,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&snapshot{})
	return s
}

func (s *store) Register(reg Registration) error {
	if err := s.validate(reg); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	regs := make([]Registration, 0, len(old.regs)+1)
	for _, r := range old.regs {
		if r.Pattern != reg.Pattern {
			regs = append(regs, r)
		}
	}
	regs = append(regs, reg)
	if s.layered {
		s.warnConflicts(reg, regs)
	}
	s.swap(old, regs)
	return nil
}

func (s *store) Replace(regs []Registration) error {
	seen := make(map[string]struct{}, len(regs))
	next := make([]Registration, 0, len(regs))
	for _, reg := range regs {
		if err := s.validate(reg); err != nil {
			return err
		}
		if _, dup := seen[reg.Pattern]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicatePattern, reg.Pattern)
		}
		seen[reg.Pattern] = struct{}{}
		next = append(next, reg)
	}
	if s.layered {
		for _, reg := range next {
			s.warnConflicts(reg, next)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.swap(s.current.Load(), next)
	return nil
}

func (s *store) Unregister(pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.current.Load()
	regs := make([]Registration, 0, len(old.regs))
	for _, r := range old.regs {
		if r.Pattern != pattern {
			regs = append(regs, r)
		}
	}
	if len(regs) == len(old.regs) {
		return false
	}
	s.swap(old, regs)
	return true
}

// Lookup resolves the effective policy for path from the most specific
// matching registration. With layering enabled every match contributes,
// broadest first, so more specific patterns override individual fields and
// inherit the rest.
func (s *store) Lookup(path string) (*cors.Policy, bool) {
	snap := s.current.Load()

	var matched []int
	for i, reg := range snap.regs {
		if s.matcher.Match(reg.Pattern, path).Matched {
			matched = append(matched, i)
			if !s.layered {
				break
			}
		}
	}
	if len(matched) == 0 {
		return nil, false
	}

	patterns := make([]string, len(matched))
	for i, idx := range matched {
		patterns[i] = snap.regs[idx].Pattern
	}
	key := strings.Join(patterns, "\x00")
	if cached, ok := snap.compiled.Load(key); ok {
		entry := cached.(*compiledEntry)
		return entry.policy, entry.policy != nil
	}

	var cfg cors.Config
	for i := len(matched) - 1; i >= 0; i-- {
		cfg = cors.Merge(cfg, snap.regs[matched[i]].Config)
	}
	if s.permitDefaults {
		cfg = cfg.ApplyPermitDefaultValues()
	}
	compiled, err := cors.Compile(cfg)
	if err != nil {
		// registrations are validated, so this only happens on a merge of
		// individually valid configs; treat the path as unconfigured
		s.logger.WithError(err).WithField("path", path).Error("failed to compile merged cors policy")
	}
	snap.compiled.Store(key, &compiledEntry{policy: compiled})
	return compiled, compiled != nil
}

func (s *store) Registrations() []Registration {
	snap := s.current.Load()
	out := make([]Registration, len(snap.regs))
	for i, reg := range snap.regs {
		reg.Config = cors.Merge(cors.Config{}, reg.Config)
		out[i] = reg
	}
	return out
}

func (s *store) Version() uint64 {
	return s.current.Load().version
}

func (s *store) validate(reg Registration) error {
	if err := s.matcher.Validate(reg.Pattern); err != nil {
		return err
	}
	if err := reg.Config.Validate(); err != nil {
		return fmt.Errorf("pattern %s: %w", reg.Pattern, err)
	}
	return nil
}

// swap must be called with s.mu held.
func (s *store) swap(old *snapshot, regs []Registration) {
	sort.SliceStable(regs, func(i, j int) bool {
		return s.matcher.Compare(regs[i].Pattern, regs[j].Pattern) < 0
	})
	s.current.Store(&snapshot{
		version: old.version + 1,
		regs:    regs,
	})
	s.logger.WithFields(logrus.Fields{
		"version":       old.version + 1,
		"registrations": len(regs),
	}).Debug("cors policy snapshot swapped")
}

// warnConflicts is only meaningful with layering. It logs fields of reg that override a broader registration
// covering the same pattern.
func (s *store) warnConflicts(reg Registration, regs []Registration) {
	for _, other := range regs {
		if other.Pattern == reg.Pattern || s.matcher.Compare(other.Pattern, reg.Pattern) <= 0 {
			continue
		}
		if !s.matcher.Match(other.Pattern, reg.Pattern).Matched {
			continue
		}
		if fields := cors.Conflicts(other.Config, reg.Config); len(fields) > 0 {
			s.logger.WithFields(logrus.Fields{
				"pattern":  reg.Pattern,
				"broader":  other.Pattern,
				"override": fields,
			}).Warn("cors policy overrides fields of a broader pattern")
		}
	}
}
