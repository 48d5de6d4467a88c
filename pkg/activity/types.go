package activity

import "time"

// Outcome represents the result of a recorded action.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Record is a single append-only activity entry. Records are written by the
// pipeline's logging stage and never read back by it.
type Record struct {
	ID        string         `bson:"_id" json:"id"`
	SubjectID string         `bson:"subject_id" json:"subject_id"`
	Action    string         `bson:"action" json:"action"`
	Outcome   Outcome        `bson:"outcome" json:"outcome"`
	Error     string         `bson:"error,omitempty" json:"error,omitempty"`
	RequestID string         `bson:"request_id,omitempty" json:"request_id,omitempty"`
	IP        string         `bson:"ip,omitempty" json:"ip,omitempty"`
	Metadata  map[string]any `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}

// RecordOption applies extra data to a Record at log time.
type RecordOption func(*Record)

// WithError attaches the failure reason to a Record.
func WithError(err error) RecordOption {
	return func(r *Record) {
		if err != nil {
			r.Error = err.Error()
		}
	}
}

// WithMetadata adds one metadata entry to a Record.
func WithMetadata(key string, value any) RecordOption {
	return func(r *Record) {
		if r.Metadata == nil {
			r.Metadata = make(map[string]any)
		}
		r.Metadata[key] = value
	}
}
