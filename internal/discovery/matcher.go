package discovery

import (
	"fmt"
	"regexp"
)

// Matcher decides whether a package path falls under a filter rule. Keeping
// this behind an interface lets filter rules be tested without a filesystem
// and swapped for non-regex strategies later.
type Matcher interface {
	Matches(path string) bool
}

// regexMatcher matches with an unanchored substring search, the same
// semantics operators get from grep. "^" and "$" still work when given.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m *regexMatcher) Matches(path string) bool { return m.re.MatchString(path) }

// NewRegexMatcher compiles pattern into a Matcher.
func NewRegexMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid filter pattern %q: %w", pattern, err)
	}
	return &regexMatcher{re: re}, nil
}

// matchNothing is the blacklist used when no blacklist was configured.
type matchNothing struct{}

func (matchNothing) Matches(string) bool { return false }

// NoMatch returns a Matcher that rejects every path.
func NoMatch() Matcher { return matchNothing{} }
