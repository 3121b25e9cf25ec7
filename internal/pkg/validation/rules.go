package validation

import "regexp"

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Invite codes are 12 uppercase alphanumerics
	InviteCodePattern = `^[A-Z0-9]{12}$`

	// Hex color as stored on tags
	HexColorPattern = `^#[0-9a-fA-F]{6}$`

	PasswordMinLength = 8

	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email      *regexp.Regexp
	InviteCode *regexp.Regexp
	HexColor   *regexp.Regexp
}{
	Email:      regexp.MustCompile(EmailPattern),
	InviteCode: regexp.MustCompile(InviteCodePattern),
	HexColor:   regexp.MustCompile(HexColorPattern),
}

// ValidEmail reports whether the value looks like an email address
func ValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// ValidInviteCode reports whether the value is a well-formed invite code
func ValidInviteCode(value string) bool {
	return CompiledPatterns.InviteCode.MatchString(value)
}

// ValidPassword reports whether the password meets the minimum policy
func ValidPassword(value string) bool {
	return len(value) >= PasswordMinLength
}
