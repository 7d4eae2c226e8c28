package validation

import "strings"

// Punctuation accepted as "special" when scoring password strength.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// HasSpecialChar reports whether the password contains at least one
// character from the accepted special set.
func HasSpecialChar(s string) bool {
	return strings.ContainsAny(s, specialChars)
}
