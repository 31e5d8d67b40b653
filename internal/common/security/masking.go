// Package security masks personal data before it reaches audit logs.
package security

import "strings"

// MaskUsername masks a username for safe logging.
// Shows first 2 and last 2 characters with **** in between.
// Short usernames (4 characters or less) are fully masked.
func MaskUsername(username string) string {
	if len(username) <= 4 {
		return "****"
	}
	return username[:2] + "****" + username[len(username)-2:]
}

// MaskEmail masks an email address or principal name.
// Example: "user@example.com" becomes "us****@ex****"
func MaskEmail(email string) string {
	if email == "" {
		return ""
	}

	localPart, domain, ok := strings.Cut(email, "@")
	if !ok {
		return MaskUsername(email)
	}

	return maskPrefix(localPart) + "@" + maskPrefix(domain)
}

// MaskTicket keeps the ticket's first 2 characters.
func MaskTicket(ticket string) string {
	if ticket == "" {
		return ""
	}
	return maskPrefix(ticket)
}

func maskPrefix(s string) string {
	if len(s) > 2 {
		return s[:2] + "****"
	}
	return "****"
}
