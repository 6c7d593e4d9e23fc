package mechanic

import (
	"fmt"

	"boardroom/internal/domain"
)

// Kind tags an apply/resolve outcome.
type Kind string

const (
	// KindOK means the mutation completed.
	KindOK Kind = "ok"
	// KindNoop means the mechanic determined nothing applied (e.g. zero
	// eligible workers). Callers may choose not to treat it as a
	// meaningful turn action.
	KindNoop Kind = "noop"
	// KindPending means a second actor's input is required; the caller
	// must install Result.Pending as the room's pending action.
	KindPending Kind = "pending"
	// KindError means validation failed; state was not corrupted.
	KindError Kind = "error"
)

// Result is the tagged outcome of a mechanic's Apply or Resolve. Details
// optionally carries diagnostic fields for error results.
type Result struct {
	Kind    Kind
	Pending *domain.PendingAction
	Code    string
	Message string
	Details map[string]any
}

func OK() Result   { return Result{Kind: KindOK} }
func Noop() Result { return Result{Kind: KindNoop} }

func Errorf(code, format string, args ...any) Result {
	return Result{Kind: KindError, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NeedsResponse(p *domain.PendingAction) Result {
	return Result{Kind: KindPending, Pending: p}
}

// Context carries the acting player and the effect payload into Apply.
type Context struct {
	PlayerID string
	SpaceID  string
	Payload  map[string]any
}

// Choice is a responder's answer to a pending action.
type Choice struct {
	Skip       bool   `json:"skip,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	Amount     *int   `json:"amount,omitempty"`
}

// Spec is a named, pluggable rule. Apply mutates state in place; mechanics
// that need a second actor's response also implement Resolve, which may
// itself return another pending result if chained interaction is required.
type Spec struct {
	ID          string
	DisplayName string
	Description string
	Apply       func(state *domain.GameState, ctx Context) Result
	Resolve     func(state *domain.GameState, pending *domain.PendingAction, choice Choice) Result
}

// Registry is a write-once table of mechanics, built at startup and read-only
// afterwards so rooms and tests never observe runtime mutation.
type Registry struct {
	specs map[string]Spec
}

func NewRegistry(specs ...Spec) *Registry {
	m := make(map[string]Spec, len(specs))
	for _, spec := range specs {
		m[spec.ID] = spec
	}
	return &Registry{specs: m}
}

// Default returns a registry with every builtin mechanic registered.
func Default() *Registry {
	return NewRegistry(Builtins()...)
}

func (r *Registry) Get(id string) (Spec, bool) {
	spec, ok := r.specs[id]
	return spec, ok
}

func (r *Registry) List() []Spec {
	out := make([]Spec, 0, len(r.specs))
	for _, spec := range r.specs {
		out = append(out, spec)
	}
	return out
}

// Execute dispatches Apply for the mechanic registered under id. An
// unregistered id is a configuration error, not a game outcome, so it is
// returned as a plain error rather than a Result.
func (r *Registry) Execute(state *domain.GameState, id string, ctx Context) (Result, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Result{}, fmt.Errorf("mechanic not registered: %s", id)
	}
	return spec.Apply(state, ctx), nil
}
