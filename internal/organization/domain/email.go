package domain

import "strings"

// NormalizeDomain is the canonical form of an organization domain.
func NormalizeDomain(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// EmailDomain returns the normalized part after the last "@", or "" for malformed input.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return NormalizeDomain(email[at+1:])
}
