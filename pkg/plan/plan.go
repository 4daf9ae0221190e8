// Package plan separates deciding what to change on disk from changing it.
//
// Operations build a [Plan] without mutating the filesystem. An [Executor]
// then either reports the plan (preview) or carries it out action by action
// (apply). Both modes walk the same plan in the same order, so a preview
// shows exactly what apply would attempt.
package plan

import (
	"errors"
	"fmt"
	"strings"

	"github.com/macropower/shelf/pkg/oplog"
)

var ErrUnknownMode = errors.New("unknown mode")

// Mode selects between reporting and carrying out a plan.
type Mode string

const (
	Preview Mode = "preview"
	Apply   Mode = "apply"
)

// GetMode parses a mode name.
func GetMode(mode string) (Mode, error) {
	switch m := Mode(strings.ToLower(mode)); m {
	case Preview, Apply:
		return m, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// ModeFor returns [Apply] when apply is true, otherwise [Preview].
func ModeFor(apply bool) Mode {
	if apply {
		return Apply
	}

	return Preview
}

// Op is a single kind of filesystem mutation.
type Op string

const (
	OpMkdir  Op = "mkdir"
	OpMove   Op = "move"
	OpRename Op = "rename"
	OpRemove Op = "remove"
)

// Action is one planned mutation.
type Action struct {
	Op     Op
	Source string
	Target string
	// Label is the text shown for the action. When empty, paths are used.
	Label string
	// Size is the size in bytes of the affected file, if known.
	Size int64
}

func (a Action) String() string {
	if a.Label != "" {
		return a.Label
	}
	if a.Target == "" {
		return a.Source
	}

	return a.Source + " -> " + a.Target
}

// Plan is the full set of actions for one operation, computed before any
// mutation.
type Plan struct {
	// Notes holds entries gathered while building the plan, such as skipped
	// items. They are emitted before any action.
	Notes *oplog.Log
	// Name describes the operation, e.g. "rename".
	Name string
	// Setup actions run before Actions. If any fails, the plan is aborted.
	Setup []Action
	// Actions are independent; a failure does not stop the remaining ones.
	Actions []Action
}

// New creates an empty [Plan].
func New(name string) *Plan {
	return &Plan{Name: name, Notes: oplog.New()}
}

// Add appends actions.
func (p *Plan) Add(actions ...Action) {
	p.Actions = append(p.Actions, actions...)
}

// AddSetup appends setup actions.
func (p *Plan) AddSetup(actions ...Action) {
	p.Setup = append(p.Setup, actions...)
}

// Len returns the number of actions, excluding setup.
func (p *Plan) Len() int {
	return len(p.Actions)
}

// Size returns the sum of the action sizes.
func (p *Plan) Size() int64 {
	var n int64
	for _, a := range p.Actions {
		n += a.Size
	}

	return n
}
