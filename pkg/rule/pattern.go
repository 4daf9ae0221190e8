package rule

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dlclark/regexp2"
)

// Upper bound on a single backtracking match.
const matchTimeout = time.Second

var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern is a compiled regular expression.
type Pattern interface {
	// FindGroups searches s (unanchored) and returns the whole match followed
	// by each capture group. Groups that did not participate are empty.
	FindGroups(s string) ([]string, bool)
	// NumGroups returns the number of capture groups.
	NumGroups() int
	String() string
}

// CompilePattern compiles expr with the RE2 engine. Expressions that RE2
// rejects, such as lookarounds and backreferences, are compiled with a
// backtracking engine instead.
//
//nolint:ireturn // Either engine may be returned.
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err == nil {
		return &re2Pattern{re: re}, nil
	}

	bre, berr := regexp2.Compile(expr, regexp2.None)
	if berr != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, expr, err)
	}

	bre.MatchTimeout = matchTimeout

	return &backtrackPattern{re: bre}, nil
}

type re2Pattern struct {
	re *regexp.Regexp
}

func (p *re2Pattern) FindGroups(s string) ([]string, bool) {
	m := p.re.FindStringSubmatch(s)
	if m == nil {
		return nil, false
	}

	return m, true
}

func (p *re2Pattern) NumGroups() int { return p.re.NumSubexp() }
func (p *re2Pattern) String() string { return p.re.String() }

type backtrackPattern struct {
	re *regexp2.Regexp
}

func (p *backtrackPattern) FindGroups(s string) ([]string, bool) {
	m, err := p.re.FindStringMatch(s)
	if err != nil || m == nil {
		return nil, false
	}

	groups := m.Groups()
	out := make([]string, len(groups))
	for i, g := range groups {
		if len(g.Captures) > 0 {
			out[i] = g.String()
		}
	}

	return out, true
}

func (p *backtrackPattern) NumGroups() int { return len(p.re.GetGroupNumbers()) - 1 }
func (p *backtrackPattern) String() string { return p.re.String() }
