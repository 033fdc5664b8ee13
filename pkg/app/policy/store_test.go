package policy

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/NeuralTrust/CorsGate/pkg/app/routing"
	"github.com/NeuralTrust/CorsGate/pkg/cors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(permitDefaults bool) Store {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewStore(logger, routing.NewPathMatcher(), permitDefaults)
}

func preflightTo(path, origin, method string) cors.Request {
	return cors.Request{
		Method:                     http.MethodOptions,
		Scheme:                     "https",
		Host:                       "gateway.local",
		Path:                       path,
		Origin:                     origin,
		AccessControlRequestMethod: method,
	}
}

func TestStore_LookupScenario(t *testing.T) {
	store := newTestStore(true)
	require.NoError(t, store.Register(Registration{
		Pattern: "/api/**",
		Config: cors.Config{
			AllowedOrigins: []string{"http://domain2.com"},
			AllowedMethods: []string{"PUT", "DELETE"},
		},
		Source: SourceAPI,
	}))

	p, ok := store.Lookup("/api/x")
	require.True(t, ok)

	allowed := cors.Evaluate(preflightTo("/api/x", "http://domain2.com", http.MethodPut), p)
	require.True(t, allowed.Allowed())
	assert.Equal(t, "http://domain2.com", allowed.Header.Get(cors.HeaderAccessControlAllowOrigin))
	assert.Equal(t, "PUT,DELETE", allowed.Header.Get(cors.HeaderAccessControlAllowMethods))

	rejected := cors.Evaluate(preflightTo("/api/x", "http://domain2.com", http.MethodPost), p)
	assert.True(t, rejected.Rejected())
	assert.Empty(t, rejected.Header)

	_, ok = store.Lookup("/other")
	assert.False(t, ok)
}

func TestStore_LookupMostSpecificWins(t *testing.T) {
	store := newTestStore(false)
	require.NoError(t, store.Replace([]Registration{
		{Pattern: "/api/users/{id}", Config: cors.Config{AllowedOrigins: []string{"http://domain2.com"}}},
		{Pattern: "/api/**", Config: cors.Config{
			AllowedOrigins: []string{"http://domain1.com"},
			MaxAge:         cors.Duration(3600 * time.Second),
		}},
	}))

	p, ok := store.Lookup("/api/users/42")
	require.True(t, ok)

	cfg := p.Config()
	assert.Equal(t, []string{"http://domain2.com"}, cfg.AllowedOrigins)
	assert.Nil(t, cfg.MaxAge)
	assert.Nil(t, cfg.AllowedHeaders)

	broad, ok := store.Lookup("/api/other")
	require.True(t, ok)
	assert.Equal(t, []string{"http://domain1.com"}, broad.Config().AllowedOrigins)
}

func TestStore_LookupDoesNotInheritBroaderGrants(t *testing.T) {
	registrations := []Registration{
		{Pattern: "/**", Config: cors.Config{
			AllowedOrigins: []string{"http://public.com"},
			AllowedMethods: []string{http.MethodGet},
		}},
		{Pattern: "/admin/**", Config: cors.Config{AllowedMethods: []string{http.MethodDelete}}},
	}

	t.Run("it should reject an origin only the broader pattern allows", func(t *testing.T) {
		store := newTestStore(false)
		require.NoError(t, store.Replace(registrations))

		p, ok := store.Lookup("/admin/users")
		require.True(t, ok)
		assert.Empty(t, p.Config().AllowedOrigins)

		d := cors.Evaluate(preflightTo("/admin/users", "http://public.com", http.MethodDelete), p)
		assert.True(t, d.Rejected())
		assert.ErrorIs(t, d.Reason, cors.ErrOriginNotAllowed)
	})

	t.Run("it should keep the broader pattern for other paths", func(t *testing.T) {
		store := newTestStore(false)
		require.NoError(t, store.Replace(registrations))

		p, ok := store.Lookup("/public/page")
		require.True(t, ok)

		d := cors.Evaluate(preflightTo("/public/page", "http://public.com", http.MethodGet), p)
		assert.True(t, d.Allowed())
	})

	t.Run("it should layer every match when layering is enabled", func(t *testing.T) {
		logger := logrus.New()
		logger.SetLevel(logrus.ErrorLevel)
		store := NewStore(logger, routing.NewPathMatcher(), false, WithLayering(true))
		require.NoError(t, store.Replace(registrations))

		p, ok := store.Lookup("/admin/users")
		require.True(t, ok)
		assert.Equal(t, []string{"http://public.com"}, p.Config().AllowedOrigins)

		d := cors.Evaluate(preflightTo("/admin/users", "http://public.com", http.MethodDelete), p)
		assert.True(t, d.Allowed())
		assert.Equal(t, http.MethodDelete, d.Header.Get(cors.HeaderAccessControlAllowMethods))
	})
}

func TestStore_PermitDefaultsFillUnsetFields(t *testing.T) {
	store := newTestStore(true)
	require.NoError(t, store.Register(Registration{Pattern: "/**", Config: cors.Config{}}))

	p, ok := store.Lookup("/x")
	require.True(t, ok)

	d := cors.Evaluate(cors.Request{Method: http.MethodGet, Scheme: "https", Host: "gateway.local", Path: "/x", Origin: "http://any.com"}, p)
	require.True(t, d.Allowed())
	assert.Equal(t, "http://any.com", d.Header.Get(cors.HeaderAccessControlAllowOrigin))
	assert.Empty(t, d.Header.Get(cors.HeaderAccessControlAllowCredentials))
}

func TestStore_RegisterValidation(t *testing.T) {
	store := newTestStore(true)

	err := store.Register(Registration{
		Pattern: "/api/**",
		Config: cors.Config{
			AllowedOrigins:   []string{"*"},
			AllowCredentials: cors.Bool(true),
		},
	})
	assert.ErrorIs(t, err, cors.ErrCredentialsWildcardConflict)

	err = store.Register(Registration{Pattern: "api/**"})
	var pe *routing.PatternError
	assert.ErrorAs(t, err, &pe)

	assert.Empty(t, store.Registrations())
	assert.Zero(t, store.Version())
}

func TestStore_RegisterReplacesSamePattern(t *testing.T) {
	store := newTestStore(false)
	require.NoError(t, store.Register(Registration{Pattern: "/a", Config: cors.Config{AllowedOrigins: []string{"https://one.com"}}}))
	p1, _ := store.Lookup("/a")

	require.NoError(t, store.Register(Registration{Pattern: "/a", Config: cors.Config{AllowedOrigins: []string{"https://two.com"}}}))
	p2, _ := store.Lookup("/a")

	assert.Len(t, store.Registrations(), 1)
	assert.Equal(t, uint64(2), store.Version())
	assert.Equal(t, []string{"https://one.com"}, p1.Config().AllowedOrigins)
	assert.Equal(t, []string{"https://two.com"}, p2.Config().AllowedOrigins)
}

func TestStore_ReplaceIsAllOrNothing(t *testing.T) {
	store := newTestStore(false)
	require.NoError(t, store.Register(Registration{Pattern: "/keep"}))

	err := store.Replace([]Registration{
		{Pattern: "/a"},
		{Pattern: "/a"},
	})
	assert.ErrorIs(t, err, ErrDuplicatePattern)

	err = store.Replace([]Registration{
		{Pattern: "/b"},
		{Pattern: "/c", Config: cors.Config{AllowedMethods: []string{"BAD METHOD"}}},
	})
	assert.ErrorIs(t, err, cors.ErrInvalidMethod)

	regs := store.Registrations()
	require.Len(t, regs, 1)
	assert.Equal(t, "/keep", regs[0].Pattern)
}

func TestStore_RegistrationsOrderedMostSpecificFirst(t *testing.T) {
	store := newTestStore(false)
	require.NoError(t, store.Replace([]Registration{
		{Pattern: "/**"},
		{Pattern: "/api/**"},
		{Pattern: "/api/users/me"},
		{Pattern: "/api/users/{id}"},
	}))

	var patterns []string
	for _, reg := range store.Registrations() {
		patterns = append(patterns, reg.Pattern)
	}
	assert.Equal(t, []string{"/api/users/me", "/api/users/{id}", "/api/**", "/**"}, patterns)
}

func TestStore_Unregister(t *testing.T) {
	store := newTestStore(false)
	require.NoError(t, store.Register(Registration{Pattern: "/api/**"}))

	assert.False(t, store.Unregister("/missing"))
	assert.True(t, store.Unregister("/api/**"))

	_, ok := store.Lookup("/api/x")
	assert.False(t, ok)
}

func TestStore_ConcurrentReadsDuringSwaps(t *testing.T) {
	store := newTestStore(true)
	require.NoError(t, store.Register(Registration{Pattern: "/api/**", Config: cors.Config{AllowedOrigins: []string{"https://a.com"}}}))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p, ok := store.Lookup("/api/x")
				if assert.True(t, ok) {
					assert.NotNil(t, p)
				}
			}
		}()
		go func() {
			defer wg.Done()
			_ = store.Register(Registration{Pattern: "/api/**", Config: cors.Config{AllowedOrigins: []string{"https://b.com"}}})
		}()
	}
	wg.Wait()
}
