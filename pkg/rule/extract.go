package rule

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/macropower/shelf/pkg/expr"
)

var ErrGroupOutOfRange = errors.New("capture group out of range")

// Match is a successful pattern match against a filename.
type Match struct {
	// Name is the filename that was matched.
	Name string
	// Groups holds the whole match at index 0, followed by each capture group.
	Groups []string
}

// Extractor derives a rename suffix from a [Match].
type Extractor interface {
	Extract(m Match) (string, error)
	// MinGroups returns the number of capture groups the extractor needs.
	MinGroups() int
	String() string
}

// Group is an [Extractor] that returns the n-th capture group.
type Group int

func (g Group) Extract(m Match) (string, error) {
	if int(g) < 0 || int(g) >= len(m.Groups) {
		return "", fmt.Errorf("%w: %d", ErrGroupOutOfRange, int(g))
	}

	return m.Groups[g], nil
}

func (g Group) MinGroups() int { return int(g) }
func (g Group) String() string { return fmt.Sprintf("group %d", int(g)) }

var extractEnv = expr.MustNewEnvironment(
	cel.Variable("groups", cel.ListType(cel.StringType)),
	cel.Variable("name", cel.StringType),
	cel.Variable("stem", cel.StringType),
	cel.Variable("ext", cel.StringType),
)

// Expression is an [Extractor] backed by a CEL expression.
//
// CEL expressions have access to variables:
//   - `groups` (list<string>): The whole match followed by each capture group
//   - `name` (string): The full filename
//   - `stem` (string): The filename without its extension
//   - `ext` (string): The extension including the dot
//
// Expressions must return a string or an int, e.g.:
//   - pad(groups[1], 2) - zero-pad the first group to two digits
//   - groups[1] + "-" + groups[2] - join two groups
//   - string(int(groups[1]) + 100) - offset a numeric group
type Expression struct {
	program cel.Program
	source  string
}

// NewExpression compiles a CEL extract expression.
func NewExpression(source string) (*Expression, error) {
	if strings.TrimSpace(source) == "" {
		return nil, errors.New("empty expression")
	}

	program, err := extractEnv.Compile(source)
	if err != nil {
		return nil, err //nolint:wrapcheck // Already wrapped by expr.
	}

	return &Expression{program: program, source: source}, nil
}

func (e *Expression) Extract(m Match) (string, error) {
	ext := filepath.Ext(m.Name)

	s, err := expr.EvalString(e.program, map[string]any{
		"groups": m.Groups,
		"name":   m.Name,
		"stem":   strings.TrimSuffix(m.Name, ext),
		"ext":    ext,
	})
	if err != nil {
		return "", fmt.Errorf("expression %q: %w", e.source, err)
	}

	return s, nil
}

// MinGroups is one, since every rule pattern needs a capture group.
func (e *Expression) MinGroups() int { return 1 }
func (e *Expression) String() string { return e.source }
