// Package rapid turns an ordered action sequence into an ABB RAPID program
// module: a declaration pass, an instruction pass, and best-effort
// identifier checks that warn instead of aborting.
package rapid

import (
	"fmt"
	"unicode"
)

// MaxIdentifierLength is the RAPID limit for variable names.
const MaxIdentifierLength = 32

// NameRegistry tracks the RAPID identifiers claimed during one generation
// run. It lives exactly as long as the run; it is never shared.
type NameRegistry struct {
	claimed map[string]struct{}
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{claimed: make(map[string]struct{})}
}

// Claim records a name. It returns false when the name was already taken.
func (r *NameRegistry) Claim(name string) bool {
	if _, taken := r.claimed[name]; taken {
		return false
	}
	r.claimed[name] = struct{}{}
	return true
}

// CheckIdentifier returns the warnings a RAPID compiler would raise for the
// name: too long, or starting with a digit. An empty result means the name
// is acceptable.
func CheckIdentifier(name string) []string {
	var warnings []string
	if len(name) > MaxIdentifierLength {
		warnings = append(warnings, fmt.Sprintf(
			"identifier %q exceeds %d characters", name, MaxIdentifierLength))
	}
	if name != "" && unicode.IsDigit(rune(name[0])) {
		warnings = append(warnings, fmt.Sprintf(
			"identifier %q starts with a digit", name))
	}
	return warnings
}
