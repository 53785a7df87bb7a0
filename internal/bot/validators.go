package bot

import "regexp"

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

var phoneDigitsRe = regexp.MustCompile(`^\d+$`)

// IsValidPhoneNumber accepts 7 to 15 ASCII digits and nothing else.
func IsValidPhoneNumber(phone string) bool {
	if !phoneDigitsRe.MatchString(phone) {
		return false
	}
	return len(phone) >= minPhoneDigits && len(phone) <= maxPhoneDigits
}
