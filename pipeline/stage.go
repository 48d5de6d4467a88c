package pipeline

import (
	"context"

	"github.com/rampagehq/userapi/pkg/validator"
)

// StageKind identifies one variant of cross-cutting pipeline logic.
type StageKind string

const (
	StageAuth          StageKind = "auth"
	StageAccountStatus StageKind = "account_status"
	StageMetadata      StageKind = "metadata"
	StageRateLimit     StageKind = "rate_limit"
	StageValidate      StageKind = "validate"
	StageSanitize      StageKind = "sanitize"
	StageActivityLog   StageKind = "activity_log"
	StageCustom        StageKind = "custom"
)

// StageFunc is a custom stage body. It mutates the request context or
// rejects the request by returning a taxonomy error.
type StageFunc func(ctx context.Context, rc *RequestContext) error

// Handler is a terminal business-logic handler invoked after the whole
// stage chain succeeded.
type Handler func(ctx context.Context, rc *RequestContext) (HandlerResult, error)

// StageDescriptor is a tagged variant describing one stage of a route's
// chain. Descriptors are inert data; the Executor binds them to the injected
// collaborators at startup.
type StageDescriptor struct {
	Kind StageKind

	// Category names the rate-limit bucket for StageRateLimit.
	Category string

	// RuleSet is the declarative payload contract for StageValidate.
	RuleSet *validator.RuleSet

	// Action is the activity tag for StageActivityLog.
	Action string

	// Run is the body of a StageCustom descriptor.
	Run StageFunc
}

// Auth authenticates the bearer credential and sets the request subject.
func Auth() StageDescriptor {
	return StageDescriptor{Kind: StageAuth}
}

// AccountStatus blocks subjects whose account status forbids API access.
func AccountStatus() StageDescriptor {
	return StageDescriptor{Kind: StageAccountStatus}
}

// Metadata injects response metadata (request id, API version).
func Metadata() StageDescriptor {
	return StageDescriptor{Kind: StageMetadata}
}

// RateLimit counts the request against the subject's window for the given
// sensitive-operation category.
func RateLimit(category string) StageDescriptor {
	return StageDescriptor{Kind: StageRateLimit, Category: category}
}

// Validate binds the request payload and validates it against the rule set.
func Validate(rs *validator.RuleSet) StageDescriptor {
	return StageDescriptor{Kind: StageValidate, RuleSet: rs}
}

// Sanitize normalizes the validated payload in place.
func Sanitize() StageDescriptor {
	return StageDescriptor{Kind: StageSanitize}
}

// Log arms an activity record with the given action tag; the executor emits
// it once the request outcome is known.
func Log(action string) StageDescriptor {
	return StageDescriptor{Kind: StageActivityLog, Action: action}
}

// Custom wraps an ad hoc stage function.
func Custom(fn StageFunc) StageDescriptor {
	return StageDescriptor{Kind: StageCustom, Run: fn}
}
