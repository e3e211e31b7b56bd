// Package classname validates the class attribute values that editors may
// attach to text with the customClass mark.
//
// A valid value is one or more class tokens separated by single spaces, made
// of lowercase ASCII letters, digits, hyphens and underscores. Only the first
// character of the whole value must be a letter; the tokens after it may
// start with any of those characters:
//
//	classname := lower (char | " " char)*
//	char      := lower | digit | "-" | "_"
package classname

import "regexp"

// Pattern is the anchored expression that a whole class attribute value must
// match. A space is only accepted when a token character follows it, so
// leading, trailing and doubled spaces are all rejected.
var Pattern = regexp.MustCompile(`^[a-z](?:[a-z0-9_-]| [a-z0-9_-])*$`)

// IsValid reports whether s is an acceptable class attribute value.
func IsValid(s string) bool {
	return Pattern.MatchString(s)
}
