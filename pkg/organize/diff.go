package organize

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/macropower/shelf/pkg/plan"
)

// ListingDiff renders the effect of a rename plan on a folder listing as a
// unified diff. names is the listing before the plan is applied. It returns
// an empty string when the plan changes nothing.
func ListingDiff(folder string, names []string, p *plan.Plan) string {
	renamed := make(map[string]string, p.Len())
	for _, a := range p.Actions {
		renamed[filepath.Base(a.Source)] = filepath.Base(a.Target)
	}

	after := make([]string, 0, len(names))
	for _, n := range names {
		if to, ok := renamed[n]; ok {
			n = to
		}

		after = append(after, n)
	}

	before := slices.Sorted(slices.Values(names))
	slices.Sort(after)

	return udiff.Unified(
		filepath.Join("a", folder),
		filepath.Join("b", folder),
		listing(before),
		listing(after),
	)
}

func listing(names []string) string {
	if len(names) == 0 {
		return ""
	}

	return strings.Join(names, "\n") + "\n"
}
