package validator

// Constraint builds a Rule for a named field value. Constraints run only
// against values that are present; absence is handled by FieldRule.Required.
type Constraint func(field, value string) Rule

// CrossFieldCheck inspects the accepted payload after all per-field rules
// have run. It returns nil when satisfied.
type CrossFieldCheck func(accepted map[string]string) *FieldError

// FieldRule declares the contract for one payload field.
type FieldRule struct {
	Field       string
	Required    bool
	Constraints []Constraint

	// Normalize is applied to the value before it enters the accepted
	// payload (e.g. email canonicalization). Must be idempotent.
	Normalize func(string) string

	// Sanitize is the transform chain the sanitization stage applies to
	// this field after validation. Defaults to the rule set's text chain.
	Sanitize []func(string) string

	// Message overrides the default "field is required" message.
	Message string
}

// RuleSet is the full declarative description of one request payload.
type RuleSet struct {
	Name       string
	Fields     []FieldRule
	CrossField []CrossFieldCheck
}

// Validate evaluates every field rule independently against the input and
// aggregates all failures. For a present field, constraints run in order and
// evaluation stops at the first failure for that field. Cross-field checks
// run last, against the values that were accepted. On success the returned
// map holds only the fields that had explicit values, normalized.
//
// An empty string counts as absent: optional fields skip their constraints
// and required fields report a single "required" error.
func (rs RuleSet) Validate(input map[string]any) (map[string]string, ValidationErrors) {
	accepted := make(map[string]string, len(input))
	var errs ValidationErrors

	for _, fr := range rs.Fields {
		raw, present := input[fr.Field]

		var value string
		if present {
			s, ok := raw.(string)
			if !ok {
				errs.Add(fr.Field, "must be a string")
				continue
			}
			value = s
		}

		if !present || value == "" {
			if fr.Required {
				msg := fr.Message
				if msg == "" {
					msg = "field is required"
				}
				errs.Add(fr.Field, msg)
			}
			continue
		}

		if failed := firstFailing(fr, value); failed != nil {
			errs = append(errs, *failed)
			continue
		}

		if fr.Normalize != nil {
			value = fr.Normalize(value)
		}
		accepted[fr.Field] = value
	}

	for _, check := range rs.CrossField {
		if fe := check(accepted); fe != nil {
			errs = append(errs, *fe)
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return accepted, nil
}

// SanitizeChain returns the sanitize transforms declared for a field, or nil
// when the field carries no explicit chain.
func (rs RuleSet) SanitizeChain(field string) []func(string) string {
	for _, fr := range rs.Fields {
		if fr.Field == field {
			return fr.Sanitize
		}
	}
	return nil
}

func firstFailing(fr FieldRule, value string) *FieldError {
	for _, constraint := range fr.Constraints {
		rule := constraint(fr.Field, value)
		if !rule.Check() {
			fe := rule.Error
			return &fe
		}
	}
	return nil
}

// FieldsEqual requires two accepted fields to hold the same value. The error
// is attached to the first field. Skipped when either field was not accepted,
// so a field that already failed its own rules is not reported twice.
func FieldsEqual(field, other, message string) CrossFieldCheck {
	return func(accepted map[string]string) *FieldError {
		a, aOK := accepted[field]
		b, bOK := accepted[other]
		if !aOK || !bOK || a == b {
			return nil
		}
		return &FieldError{Field: field, Message: message}
	}
}
