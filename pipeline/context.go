package pipeline

import (
	"net/http"

	"github.com/rampagehq/userapi/pkg/validator"
)

// Subject is the authenticated actor a request acts on behalf of.
type Subject struct {
	ID    string
	Email string
}

// RequestContext is the per-request scratch space threaded through the stage
// chain. Each pipeline execution owns its context exclusively; it is never
// shared across requests.
type RequestContext struct {
	// HTTP is the inbound request, available to stages and the terminal
	// handler for query parameters and context.
	HTTP *http.Request

	// Subject is set by the authentication stage.
	Subject Subject

	// Fields holds the validated (and, after the sanitization stage,
	// sanitized) payload.
	Fields map[string]string

	// Metadata accumulates response metadata injected by stages.
	Metadata map[string]string

	// ruleSet is the rule set the validation stage ran, kept for the
	// sanitization stage's per-field chains.
	ruleSet *validator.RuleSet

	// action is armed by the activity-log stage and emitted by the
	// executor once the request outcome is known.
	action string
}

// Field returns a validated payload field, with an empty string when absent.
func (rc *RequestContext) Field(name string) string {
	return rc.Fields[name]
}

// Query returns a query parameter with a fallback default.
func (rc *RequestContext) Query(name, def string) string {
	if v := rc.HTTP.URL.Query().Get(name); v != "" {
		return v
	}
	return def
}
