package taxonomy

import (
	"fmt"
	"regexp"

	"github.com/fedspend/spendapi/domain"
)

var _ domain.Rule = (*RegexRule)(nil)

// RegexRule matches codes against a case-insensitive regular expression.
type RegexRule struct {
	pattern string         // pattern as configured, without the case flag
	re      *regexp.Regexp // compiled case-insensitive expression
}

// NewRegexRule compiles pattern into a case-insensitive rule.
func NewRegexRule(pattern string) (*RegexRule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern %q: %w", pattern, err)
	}
	return &RegexRule{pattern: pattern, re: re}, nil
}

// MustRegexRule is like NewRegexRule but panics when the pattern does not compile.
// It is meant for rule sets built from constants.
func MustRegexRule(pattern string) *RegexRule {
	rule, err := NewRegexRule(pattern)
	if err != nil {
		panic(err)
	}
	return rule
}

// Match reports whether code matches the expression.
func (r *RegexRule) Match(code string) bool {
	return r.re.MatchString(code)
}

func (r *RegexRule) String() string {
	return r.pattern
}
