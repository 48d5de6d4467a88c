// Package sanitizer provides pure, idempotent string transforms for
// normalizing validated request payloads.
//
// Every transform is a total function from string to string, and applying a
// transform twice yields the same result as applying it once. That makes
// whole sanitization chains safe to re-run over already-sanitized data.
//
// Transforms compose through Apply and Compose:
//
//	clean := sanitizer.Apply(input, sanitizer.Trim, sanitizer.StripMarkup)
//
//	textChain := sanitizer.Compose(sanitizer.Trim, sanitizer.StripMarkup)
//	clean = textChain(input)
package sanitizer
