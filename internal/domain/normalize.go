package domain

import "strings"

// NormalizeActor trims leading/trailing whitespace and collapses internal
// whitespace runs. Applied to human-entered actor names before they enter a
// trip's audit trail. Never applied to location labels: stop grouping is
// byte-exact on the raw label.
func NormalizeActor(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
