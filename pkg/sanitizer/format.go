package sanitizer

import "strings"

// NormalizeEmail canonicalizes an email address: trims whitespace,
// case-folds the domain and strips sub-addressing ("user+tag@host" becomes
// "user@host"). Values without an "@" are returned unchanged rather than
// guessed at.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)

	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}

	local := email[:at]
	domain := strings.ToLower(email[at+1:])

	if plus := strings.Index(local, "+"); plus >= 0 {
		local = local[:plus]
	}

	return local + "@" + domain
}

// ExtractEmailDomain returns the lower-cased domain part of an address, or
// an empty string when the value is not an address.
func ExtractEmailDomain(email string) string {
	at := strings.LastIndex(strings.TrimSpace(email), "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email)[at+1:])
}
