package rule

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name given to the rule built from a user-supplied pattern.
const CustomName = "custom"

var (
	ErrNoCaptureGroup = errors.New("pattern has too few capture groups")
	ErrNoMatch        = errors.New("no rule matched")
	ErrEmptySuffix    = errors.New("empty suffix")
)

// Rule is a pattern plus the [Extractor] that turns its match into a suffix.
type Rule struct {
	Pattern Pattern
	Extract Extractor
	Name    string
}

// New compiles pattern and pairs it with ex. When ex is nil, the first
// capture group is used.
func New(name, pattern string, ex Extractor) (*Rule, error) {
	if ex == nil {
		ex = Group(1)
	}

	p, err := CompilePattern(pattern)
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", name, err)
	}

	need := max(1, ex.MinGroups())
	if p.NumGroups() < need {
		return nil, fmt.Errorf("rule %q: %w: %q has %d, need %d",
			name, ErrNoCaptureGroup, pattern, p.NumGroups(), need)
	}

	return &Rule{Name: name, Pattern: p, Extract: ex}, nil
}

// MustNew creates a new rule and panics if there's an error.
func MustNew(name, pattern string, ex Extractor) *Rule {
	r, err := New(name, pattern, ex)
	if err != nil {
		panic(err)
	}

	return r
}

func (r *Rule) String() string {
	return fmt.Sprintf("%s: %s (%s)", r.Name, r.Pattern, r.Extract)
}

// Result is the outcome of matching a filename against a [Set].
type Result struct {
	Rule   *Rule
	Suffix string
}

// Set is an ordered list of rules. The first matching rule wins.
type Set []*Rule

var defaults = Set{
	MustNew("episode", `EP(\d+)`, Group(1)),
	MustNew("digits", `(\d+)`, Group(1)),
}

// Defaults returns the built-in rules, in order: the digits following a
// literal "EP", then the first run of digits anywhere in the name.
func Defaults() Set {
	return append(Set(nil), defaults...)
}

// Build returns custom (if not blank) followed by extra and then [Defaults].
// If custom does not compile, the returned set omits it and the error
// describes why; the set is still usable.
func Build(custom string, extra ...*Rule) (Set, error) {
	set := make(Set, 0, len(extra)+len(defaults)+1)

	var err error

	custom = strings.TrimSpace(custom)
	if custom != "" {
		r, cerr := New(CustomName, custom, Group(1))
		if cerr != nil {
			err = cerr
		} else {
			set = append(set, r)
		}
	}

	set = append(set, extra...)
	set = append(set, defaults...)

	return set, err
}

// Match runs each rule's pattern against name in order and returns the suffix
// produced by the first one that matches. It returns [ErrNoMatch] when no rule
// matches, and [ErrEmptySuffix] when the winning rule yields nothing.
func (s Set) Match(name string) (Result, error) {
	name = norm.NFC.String(name)

	for _, r := range s {
		groups, ok := r.Pattern.FindGroups(name)
		if !ok {
			continue
		}

		suffix, err := r.Extract.Extract(Match{Name: name, Groups: groups})
		if err != nil {
			return Result{Rule: r}, fmt.Errorf("rule %q: %w", r.Name, err)
		}
		if suffix == "" {
			return Result{Rule: r}, fmt.Errorf("rule %q: %w", r.Name, ErrEmptySuffix)
		}

		slog.Debug("rule matched",
			slog.String("name", name),
			slog.String("rule", r.Name),
			slog.String("suffix", suffix),
		)

		return Result{Rule: r, Suffix: suffix}, nil
	}

	return Result{}, ErrNoMatch
}

// Names returns the rule names in order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for _, r := range s {
		names = append(names, r.Name)
	}

	return names
}
