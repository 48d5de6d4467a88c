// Package validator implements declarative field validation for request
// payloads.
//
// A RuleSet describes every field of one request body: whether it is
// required, the ordered constraints a present value must satisfy, and an
// optional normalization applied to accepted values. Validation always
// evaluates every field independently and aggregates the failures, so a
// client receives all violated fields in a single response. Within one
// field, evaluation stops at the first failing constraint.
//
//	var passwordChange = validator.RuleSet{
//		Name: "passwordChange",
//		Fields: []validator.FieldRule{
//			{Field: "currentPassword", Required: true},
//			{Field: "newPassword", Required: true, Constraints: []validator.Constraint{
//				validator.MinLen(8),
//				validator.StrongPassword(),
//			}},
//			{Field: "confirmPassword", Required: true},
//		},
//		CrossField: []validator.CrossFieldCheck{
//			validator.FieldsEqual("confirmPassword", "newPassword", "must match newPassword"),
//		},
//	}
//
//	accepted, errs := passwordChange.Validate(input)
//	if len(errs) > 0 {
//		// errs holds one FieldError per violated field
//	}
package validator
