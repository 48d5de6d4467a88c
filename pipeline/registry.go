package pipeline

import (
	"errors"
	"fmt"
	"sync"
)

// AccessLevel classifies who may reach a route. Informational for the route
// table; enforcement is the Auth/AccountStatus stages' job.
type AccessLevel string

const (
	AccessPublic AccessLevel = "public"
	AccessUser   AccessLevel = "user"
)

var (
	ErrRegistrySealed    = errors.New("route registry is sealed")
	ErrDuplicateRoute    = errors.New("route already registered")
	ErrMissingTerminal   = errors.New("route has no terminal handler")
	ErrInvalidStageOrder = errors.New("invalid stage order")
)

// RouteSpec declares one route: its stage chain, terminal handler and access
// level. Immutable after registration.
type RouteSpec struct {
	Method   string
	Path     string
	Access   AccessLevel
	Stages   []StageDescriptor
	Terminal Handler
}

// Registry is the static route table. Routes are registered at startup;
// building an Executor seals the registry and it is read-only afterwards.
type Registry struct {
	mu     sync.RWMutex
	sealed bool
	order  []RouteSpec
	index  map[string]RouteSpec
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]RouteSpec)}
}

// Register adds a route after checking the stage ordering invariants:
// Auth first when present, AccountStatus second, RateLimit strictly before
// Validate, Validate before Sanitize, Sanitize only after Validate.
func (r *Registry) Register(spec RouteSpec) error {
	if spec.Method == "" || spec.Path == "" {
		return fmt.Errorf("%w: method and path are required", ErrInvalidStageOrder)
	}
	if spec.Terminal == nil {
		return fmt.Errorf("%w: %s %s", ErrMissingTerminal, spec.Method, spec.Path)
	}
	if spec.Access == "" {
		spec.Access = AccessUser
	}
	if err := validateStageOrder(spec.Stages); err != nil {
		return fmt.Errorf("%s %s: %w", spec.Method, spec.Path, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return ErrRegistrySealed
	}

	key := routeKey(spec.Method, spec.Path)
	if _, exists := r.index[key]; exists {
		return fmt.Errorf("%w: %s %s", ErrDuplicateRoute, spec.Method, spec.Path)
	}

	r.index[key] = spec
	r.order = append(r.order, spec)
	return nil
}

// MustRegister panics on registration failure. Route tables are wired at
// startup, so a bad spec should prevent the process from starting.
func (r *Registry) MustRegister(spec RouteSpec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Resolve returns the RouteSpec registered for (method, path). A miss is a
// routing miss for the caller to report, not a pipeline failure.
func (r *Registry) Resolve(method, path string) (RouteSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	spec, ok := r.index[routeKey(method, path)]
	return spec, ok
}

// Routes returns the registered specs in registration order.
func (r *Registry) Routes() []RouteSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RouteSpec, len(r.order))
	copy(out, r.order)
	return out
}

// seal freezes the table. Called by the Executor.
func (r *Registry) seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

func routeKey(method, path string) string {
	return method + " " + path
}

func validateStageOrder(stages []StageDescriptor) error {
	pos := make(map[StageKind]int, len(stages))
	for i, st := range stages {
		switch st.Kind {
		case StageAuth, StageAccountStatus, StageMetadata, StageRateLimit, StageValidate, StageSanitize:
			if _, dup := pos[st.Kind]; dup {
				return fmt.Errorf("%w: duplicate %s stage", ErrInvalidStageOrder, st.Kind)
			}
			pos[st.Kind] = i
		case StageActivityLog, StageCustom:
			// May repeat.
		default:
			return fmt.Errorf("%w: unknown stage kind %q", ErrInvalidStageOrder, st.Kind)
		}

		if st.Kind == StageRateLimit && st.Category == "" {
			return fmt.Errorf("%w: rate limit stage without category", ErrInvalidStageOrder)
		}
		if st.Kind == StageValidate && st.RuleSet == nil {
			return fmt.Errorf("%w: validate stage without rule set", ErrInvalidStageOrder)
		}
		if st.Kind == StageActivityLog && st.Action == "" {
			return fmt.Errorf("%w: activity log stage without action tag", ErrInvalidStageOrder)
		}
		if st.Kind == StageCustom && st.Run == nil {
			return fmt.Errorf("%w: custom stage without body", ErrInvalidStageOrder)
		}
	}

	if i, ok := pos[StageAuth]; ok && i != 0 {
		return fmt.Errorf("%w: auth must be the first stage", ErrInvalidStageOrder)
	}
	if i, ok := pos[StageAccountStatus]; ok {
		if _, hasAuth := pos[StageAuth]; !hasAuth {
			return fmt.Errorf("%w: account status check requires auth", ErrInvalidStageOrder)
		}
		if i != 1 {
			return fmt.Errorf("%w: account status check must follow auth", ErrInvalidStageOrder)
		}
	}
	if rl, ok := pos[StageRateLimit]; ok {
		if v, hasValidate := pos[StageValidate]; hasValidate && rl > v {
			return fmt.Errorf("%w: rate limit must run before validation", ErrInvalidStageOrder)
		}
	}
	if s, ok := pos[StageSanitize]; ok {
		v, hasValidate := pos[StageValidate]
		if !hasValidate || s < v {
			return fmt.Errorf("%w: sanitize must follow validation", ErrInvalidStageOrder)
		}
	}
	return nil
}
