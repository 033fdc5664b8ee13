package routing

import (
	"regexp"
	"strings"
	"sync"
)

const (
	segmentWildcard = "*"
	deepWildcard    = "**"
	CatchAll        = "/**"
)

type MatchResult struct {
	Matched bool
	Params  map[string]string
}

//go:generate mockery --name=PathMatcher --dir=. --output=./mocks --filename=path_matcher_mock.go --case=underscore --with-expecter
type PathMatcher interface {
	Match(pattern string, path string) MatchResult
	Compare(a, b string) int
	Validate(pattern string) error
	NormalizePath(path string) string
}

type pathMatcher struct {
	regexCache        sync.Map
	paramExtractRegex *regexp.Regexp
}

func NewPathMatcher() PathMatcher {
	return &pathMatcher{
		paramExtractRegex: regexp.MustCompile(`^\{([A-Za-z_][A-Za-z0-9_]*)\}$`),
	}
}

func (m *pathMatcher) Match(pattern string, path string) MatchResult {
	path = m.NormalizePath(path)
	if pattern == CatchAll {
		return MatchResult{Matched: true, Params: map[string]string{}}
	}
	if !strings.ContainsAny(pattern, "*{") {
		if path == pattern {
			return MatchResult{Matched: true, Params: map[string]string{}}
		}
		return MatchResult{Matched: false}
	}

	compiled := m.getOrCompile(pattern)
	if compiled == nil {
		return MatchResult{Matched: false}
	}
	matches := compiled.regex.FindStringSubmatch(path)
	if len(matches) == 0 {
		return MatchResult{Matched: false}
	}
	params := make(map[string]string, len(compiled.params))
	for i, name := range compiled.params {
		if i+1 < len(matches) {
			params[name] = matches[i+1]
		}
	}
	return MatchResult{Matched: true, Params: params}
}

// Compare orders patterns by specificity. It returns a negative number when a
// is more specific than b, positive when b is, zero when they tie.
func (m *pathMatcher) Compare(a, b string) int {
	if a == b {
		return 0
	}
	sa, sb := specificityOf(a), specificityOf(b)
	switch {
	case sa.catchAll != sb.catchAll:
		if sa.catchAll {
			return 1
		}
		return -1
	case sa.exact != sb.exact:
		if sa.exact {
			return -1
		}
		return 1
	case sa.deep != sb.deep:
		return sa.deep - sb.deep
	case sa.single != sb.single:
		return sa.single - sb.single
	case sa.literal != sb.literal:
		return sb.literal - sa.literal
	case sa.firstWildcard != sb.firstWildcard:
		return sb.firstWildcard - sa.firstWildcard
	}
	return strings.Compare(a, b)
}

// Validate checks the pattern grammar: absolute path, "**" only as the last
// segment, "{name}" and "*" covering whole segments.
func (m *pathMatcher) Validate(pattern string) error {
	if !strings.HasPrefix(pattern, "/") {
		return &PatternError{Pattern: pattern, Msg: "must start with /"}
	}
	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	for i, seg := range segments {
		switch {
		case seg == deepWildcard:
			if i != len(segments)-1 {
				return &PatternError{Pattern: pattern, Msg: "** is only allowed as the last segment"}
			}
		case seg == segmentWildcard:
		case strings.ContainsAny(seg, "{}"):
			if !m.paramExtractRegex.MatchString(seg) {
				return &PatternError{Pattern: pattern, Msg: "invalid parameter segment " + seg}
			}
		case strings.Contains(seg, "*"):
			return &PatternError{Pattern: pattern, Msg: "wildcards must cover a whole segment"}
		case seg == "" && i != len(segments)-1:
			return &PatternError{Pattern: pattern, Msg: "empty segment"}
		}
	}
	return nil
}

func (m *pathMatcher) NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	return path
}

type PatternError struct {
	Pattern string
	Msg     string
}

func (e *PatternError) Error() string {
	return "invalid path pattern " + e.Pattern + ": " + e.Msg
}

type compiledPattern struct {
	regex  *regexp.Regexp
	params []string
}

func (m *pathMatcher) getOrCompile(pattern string) *compiledPattern {
	if cached, ok := m.regexCache.Load(pattern); ok {
		if c, ok := cached.(*compiledPattern); ok {
			return c
		}
	}
	c := m.compile(pattern)
	if c == nil {
		return nil
	}
	m.regexCache.Store(pattern, c)
	return c
}

func (m *pathMatcher) compile(pattern string) *compiledPattern {
	var (
		b      strings.Builder
		params []string
	)
	b.WriteString("^")
	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	for i, seg := range segments {
		if seg == deepWildcard && i == len(segments)-1 {
			// zero or more trailing segments, "/api/**" also matches "/api"
			b.WriteString(`(?:/.*)?`)
			continue
		}
		b.WriteString("/")
		switch {
		case seg == segmentWildcard:
			b.WriteString(`[^/]+`)
		case m.paramExtractRegex.MatchString(seg):
			params = append(params, m.paramExtractRegex.FindStringSubmatch(seg)[1])
			b.WriteString(`([^/]+)`)
		default:
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}
	b.WriteString("$")
	regex, err := regexp.Compile(b.String())
	if err != nil {
		return nil
	}
	return &compiledPattern{regex: regex, params: params}
}

type specificity struct {
	catchAll bool
	exact    bool
	deep     int
	single   int
	literal  int
	// segment index of the first wildcard, later is more specific
	firstWildcard int
}

func specificityOf(pattern string) specificity {
	s := specificity{catchAll: pattern == CatchAll, firstWildcard: -1}
	segments := strings.Split(strings.TrimPrefix(pattern, "/"), "/")
	for i, seg := range segments {
		wildcard := seg == deepWildcard || seg == segmentWildcard || strings.HasPrefix(seg, "{")
		if wildcard && s.firstWildcard < 0 {
			s.firstWildcard = i
		}
		switch {
		case seg == deepWildcard:
			s.deep++
		case wildcard:
			s.single++
		default:
			s.literal += len(seg) + 1
		}
	}
	s.exact = s.deep == 0 && s.single == 0
	if s.exact {
		s.firstWildcard = len(segments)
	}
	return s
}
