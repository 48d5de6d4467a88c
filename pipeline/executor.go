package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rampagehq/userapi/pkg/activity"
	"github.com/rampagehq/userapi/pkg/clientip"
	"github.com/rampagehq/userapi/pkg/logger"
	"github.com/rampagehq/userapi/pkg/ratelimit"
	"github.com/rampagehq/userapi/pkg/requestid"
	"github.com/rampagehq/userapi/pkg/sanitizer"
)

// APIVersion is echoed on every response by the metadata stage.
const APIVersion = "v1"

// Account statuses known to the status gate.
const (
	StatusActive          = "active"
	StatusUnverified      = "unverified"
	StatusSuspended       = "suspended"
	StatusDeactivated     = "deactivated"
	StatusPendingDeletion = "pending_deletion"
)

// Verifier authenticates the request's credential and returns its subject.
// May consult an external verifier; the call suspends the pipeline until it
// returns.
type Verifier interface {
	Verify(ctx context.Context, r *http.Request) (Subject, error)
}

// AccountDirectory looks up the current status of an account.
type AccountDirectory interface {
	Status(ctx context.Context, subjectID string) (string, error)
}

// Limiter counts a request against the subject's window for a category.
type Limiter interface {
	Check(ctx context.Context, subjectID, category string) (*ratelimit.Result, error)
}

// ActivityLogger appends best-effort activity records.
type ActivityLogger interface {
	Log(ctx context.Context, subjectID, action string, outcome activity.Outcome, opts ...activity.RecordOption)
}

// Components are the collaborators stages are bound to. All of them are
// injected; the executor holds no ambient state.
type Components struct {
	Verifier Verifier
	Accounts AccountDirectory
	Limiter  Limiter
	Activity ActivityLogger
	Logger   *slog.Logger
}

// Executor compiles the sealed route table into HTTP handlers.
type Executor struct {
	registry *Registry
	comps    Components
	log      *slog.Logger
}

// NewExecutor binds the registry's routes to the given components and seals
// the registry. Routes using a stage whose collaborator is missing are
// rejected here, at startup.
func NewExecutor(registry *Registry, comps Components) (*Executor, error) {
	if registry == nil {
		return nil, errors.New("pipeline: registry is required")
	}

	for _, spec := range registry.Routes() {
		for _, st := range spec.Stages {
			if err := comps.check(st.Kind); err != nil {
				return nil, fmt.Errorf("pipeline: %s %s: %w", spec.Method, spec.Path, err)
			}
		}
	}

	registry.seal()

	log := comps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Executor{registry: registry, comps: comps, log: log}, nil
}

func (c Components) check(kind StageKind) error {
	switch kind {
	case StageAuth:
		if c.Verifier == nil {
			return errors.New("auth stage without verifier")
		}
	case StageAccountStatus:
		if c.Accounts == nil {
			return errors.New("account status stage without account directory")
		}
	case StageRateLimit:
		if c.Limiter == nil {
			return errors.New("rate limit stage without limiter")
		}
	case StageActivityLog:
		if c.Activity == nil {
			return errors.New("activity log stage without activity logger")
		}
	}
	return nil
}

// Handler returns the router serving every registered route. Unmatched
// requests get a routing-miss envelope rather than a pipeline failure.
func (e *Executor) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(clientip.Middleware)

	for _, spec := range e.registry.Routes() {
		r.Method(spec.Method, spec.Path, e.compile(spec))
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusNotFound, Envelope{Kind: "not_found", Message: "Route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, Envelope{Kind: "method_not_allowed", Message: "Method not allowed"})
	})

	return r
}

// compile builds the http.Handler for one route: run stages in order over a
// fresh RequestContext, short-circuit on the first failure, dispatch the
// terminal handler on full success.
func (e *Executor) compile(spec RouteSpec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rc := &RequestContext{
			HTTP:     r,
			Metadata: make(map[string]string),
		}

		for _, st := range spec.Stages {
			// Once cancellation is observed, later stages and the
			// terminal handler must not run and no response is sent.
			// Side effects already committed stay committed.
			if r.Context().Err() != nil {
				return
			}

			if err := e.runStage(st, w, rc); err != nil {
				e.fail(w, r, rc, err)
				return
			}
		}

		if r.Context().Err() != nil {
			return
		}

		result, err := spec.Terminal(r.Context(), rc)
		if err != nil {
			e.fail(w, r, rc, err)
			return
		}

		e.emitActivity(rc, activity.OutcomeSuccess, nil)
		writeJSON(w, http.StatusOK, Envelope{
			Success: true,
			Message: result.Message,
			Data:    result.Data,
		})
	}
}

func (e *Executor) runStage(st StageDescriptor, w http.ResponseWriter, rc *RequestContext) error {
	ctx := rc.HTTP.Context()

	switch st.Kind {
	case StageAuth:
		subject, err := e.comps.Verifier.Verify(ctx, rc.HTTP)
		if err != nil {
			var authErr *AuthError
			if errors.As(err, &authErr) {
				return err
			}
			return &AuthError{Reason: err.Error()}
		}
		rc.Subject = subject
		return nil

	case StageAccountStatus:
		status, err := e.comps.Accounts.Status(ctx, rc.Subject.ID)
		if err != nil {
			return fmt.Errorf("account status lookup: %w", err)
		}
		if statusBlocked(status) {
			return &StatusError{Status: status}
		}
		return nil

	case StageMetadata:
		if id := requestid.FromContext(ctx); id != "" {
			rc.Metadata["request_id"] = id
		}
		rc.Metadata["api_version"] = APIVersion
		w.Header().Set("X-API-Version", APIVersion)
		return nil

	case StageRateLimit:
		res, err := e.comps.Limiter.Check(ctx, rc.Subject.ID, st.Category)
		if err != nil {
			return fmt.Errorf("rate limit check: %w", err)
		}
		if !res.Allowed {
			return &RateLimitError{Category: st.Category, RetryAfter: res.RetryAfter()}
		}
		return nil

	case StageValidate:
		input, err := bindInput(rc.HTTP)
		if err != nil {
			return err
		}
		accepted, errs := st.RuleSet.Validate(input)
		if len(errs) > 0 {
			return errs
		}
		rc.Fields = accepted
		rc.ruleSet = st.RuleSet
		return nil

	case StageSanitize:
		sanitizeFields(rc)
		return nil

	case StageActivityLog:
		// Arm only: the record is emitted once the outcome is known, so
		// no record is written when an earlier stage already rejected.
		rc.action = st.Action
		return nil

	case StageCustom:
		return st.Run(ctx, rc)
	}

	return fmt.Errorf("pipeline: unknown stage kind %q", st.Kind)
}

func (e *Executor) fail(w http.ResponseWriter, r *http.Request, rc *RequestContext, err error) {
	e.emitActivity(rc, activity.OutcomeFailure, err)

	status, env := Translate(err)

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	e.log.LogAttrs(r.Context(), level, "pipeline request failed",
		logger.Error(err),
		logger.RequestID(requestid.FromContext(r.Context())),
		logger.UserID(rc.Subject.ID),
		slog.Int("status_code", status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("pipeline"),
	)

	if r.Context().Err() != nil {
		return
	}
	writeJSON(w, status, env)
}

// emitActivity writes the armed record, if the log stage was reached. Uses a
// non-cancelable context so a client disconnect cannot drop a committed
// record.
func (e *Executor) emitActivity(rc *RequestContext, outcome activity.Outcome, cause error) {
	if rc.action == "" || e.comps.Activity == nil {
		return
	}

	opts := []activity.RecordOption{}
	if cause != nil {
		opts = append(opts, activity.WithError(cause))
	}
	e.comps.Activity.Log(context.WithoutCancel(rc.HTTP.Context()), rc.Subject.ID, rc.action, outcome, opts...)
}

func statusBlocked(status string) bool {
	switch status {
	case StatusSuspended, StatusDeactivated, StatusPendingDeletion:
		return true
	}
	return false
}

// bindInput assembles the validation input mapping: the JSON body for
// requests that carry one, overlaid on single-value query parameters.
// A malformed body is a data-format failure, not a validation failure.
func bindInput(r *http.Request) (map[string]any, error) {
	input := make(map[string]any)

	if r.Body != nil && r.Method != http.MethodGet && r.Method != http.MethodHead {
		if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "application/json" {
			if err := json.NewDecoder(r.Body).Decode(&input); err != nil && !errors.Is(err, io.EOF) {
				return nil, &CastError{Value: "request body"}
			}
		}
	}

	for key, values := range r.URL.Query() {
		if _, taken := input[key]; !taken && len(values) > 0 {
			input[key] = values[0]
		}
	}

	return input, nil
}

// defaultTextChain is applied to every accepted field; rule sets may add
// per-field transforms on top. Each transform is idempotent, so the whole
// chain is.
var defaultTextChain = []func(string) string{
	sanitizer.Trim,
	sanitizer.RemoveControlChars,
	sanitizer.StripMarkup,
}

func sanitizeFields(rc *RequestContext) {
	for field, value := range rc.Fields {
		value = sanitizer.Apply(value, defaultTextChain...)
		if rc.ruleSet != nil {
			value = sanitizer.Apply(value, rc.ruleSet.SanitizeChain(field)...)
		}
		rc.Fields[field] = value
	}
}
