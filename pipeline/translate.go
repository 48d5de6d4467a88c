package pipeline

import (
	"errors"
	"net/http"
	"regexp"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/rampagehq/userapi/pkg/validator"
)

// internalMessage is the only text an unclassified failure ever leaks.
const internalMessage = "Internal server error in user system"

var (
	dupIndexRegex = regexp.MustCompile(`index: ([a-zA-Z0-9_]+?)_\d+ `)
	dupKeyRegex   = regexp.MustCompile(`dup key: \{ ([a-zA-Z0-9_]+):`)
)

// Translate maps a pipeline failure onto the response envelope and its HTTP
// status. It is the single terminal catch-all: no stage or handler formats
// its own client-facing error text.
func Translate(err error) (int, Envelope) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, Envelope{
			Kind:    "auth",
			Message: "Authentication required",
		}
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return http.StatusForbidden, Envelope{
			Kind:    "account_status",
			Message: "Account is not allowed to perform this action",
		}
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		retryAfter := int(rateErr.RetryAfter.Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return http.StatusTooManyRequests, Envelope{
			Kind:       "rate_limit",
			Message:    "Too many requests, please try again later",
			RetryAfter: retryAfter,
		}
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return http.StatusBadRequest, Envelope{
			Kind:    "validation",
			Message: "Validation failed",
			Errors:  valErrs.Messages(),
		}
	}

	var castErr *CastError
	if errors.As(err, &castErr) {
		return http.StatusBadRequest, Envelope{
			Kind:    "cast",
			Message: "Invalid data format",
		}
	}

	if mongo.IsDuplicateKeyError(err) {
		return http.StatusBadRequest, Envelope{
			Kind:    "conflict",
			Message: duplicateField(err) + " already exists",
		}
	}

	// Internal details never reach the client.
	return http.StatusInternalServerError, Envelope{
		Kind:    "internal",
		Message: internalMessage,
	}
}

// duplicateField pulls the conflicting field name out of the driver's
// duplicate-key report, first from the index name, then from the key docs.
func duplicateField(err error) string {
	msg := err.Error()
	if m := dupIndexRegex.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	if m := dupKeyRegex.FindStringSubmatch(msg); m != nil {
		return m[1]
	}
	return "value"
}
