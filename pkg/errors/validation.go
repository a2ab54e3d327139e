package errors

import (
	"regexp"
	"unicode"
)

// maxGoalLength bounds the free-form goal text accepted from clients.
const maxGoalLength = 500

// ValidateGoal validates free-form goal text supplied by clients.
// An empty goal is allowed; the pipeline treats it as "no goal given".
//
// The validation rules are intentionally conservative:
//   - Maximum length of 500 characters
//   - No control characters (tabs and newlines included)
func ValidateGoal(goal string) error {
	if len(goal) > maxGoalLength {
		return New(ErrCodeInvalidGoal, "goal too long (max %d characters)", maxGoalLength)
	}
	for _, r := range goal {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidGoal, "goal contains control characters")
		}
	}
	return nil
}

// hexColorRegex matches #RGB and #RRGGBB color literals.
var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateHexColor validates a hex color literal as used in themes and
// diagram styles. The keyword "none" is accepted because styles use it to
// disable a fill.
func ValidateHexColor(color string) error {
	if color == "none" {
		return nil
	}
	if !hexColorRegex.MatchString(color) {
		return New(ErrCodeInvalidTheme, "invalid hex color: %q", color)
	}
	return nil
}
