package domain

import (
	"fmt"
	"strings"
)

// Identity is a normalized display name for one participant. Identities
// are ordered and need not be unique; duplicates stay distinct participants.
type Identity string

func (i Identity) String() string {
	return string(i)
}

// NormalizeIdentities canonicalizes raw input strings: each entry is
// trimmed, and blank entries become positional PLAYER_<n> placeholders.
// Output preserves input order and length. Empty input yields an empty
// list, which the orchestrator treats as nothing to acquire.
func NormalizeIdentities(raw []string) []Identity {
	identities := make([]Identity, len(raw))
	for i, name := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			trimmed = fmt.Sprintf("PLAYER_%d", i+1)
		}
		identities[i] = Identity(trimmed)
	}
	return identities
}

// IdentityStrings converts back to plain strings for logging and requests.
func IdentityStrings(identities []Identity) []string {
	out := make([]string, len(identities))
	for i, id := range identities {
		out[i] = string(id)
	}
	return out
}
