package validators

import (
	"net/mail"
	"strings"
)

// NormalizePhone strips spaces, parentheses and dashes. The result is
// digits with an optional leading '+'; ok is false for anything else.
func NormalizePhone(raw string) (phone string, ok bool) {
	digits := strings.TrimSpace(raw)
	if digits == "" {
		return "", false
	}

	digits = strings.NewReplacer(" ", "", "(", "", ")", "", "-", "").Replace(digits)

	rest := strings.TrimPrefix(digits, "+")
	if rest == "" {
		return "", false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return digits, true
}

// NormalizeEmail lower-cases a syntactically valid address.
func NormalizeEmail(raw string) (string, bool) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !strings.Contains(email, "@") {
		return "", false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}
