package docanalysis

import "strings"

// ReconcileIdentity decides whether a set of per-document patient names
// all refer to the same patient. Empty entries (documents where no name
// was extracted) are dropped. Comparison is trim + lowercase; display
// keeps the original casing of the first occurrence.
//
// Mixing documents from different patients would corrupt the aggregate
// score and recommendations, so a MISMATCH verdict is surfaced
// prominently in the report even though it is not a hard error.
func ReconcileIdentity(names []string) IdentityResult {
	type seenName struct {
		display string
	}
	order := []string{}
	seen := map[string]seenName{}
	for _, name := range names {
		display := strings.TrimSpace(name)
		if display == "" {
			continue
		}
		key := strings.ToLower(display)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = seenName{display: display}
		order = append(order, key)
	}

	switch len(order) {
	case 0:
		return IdentityResult{Status: IdentityUnknown}
	case 1:
		return IdentityResult{Status: IdentityConfirmed, CanonicalName: seen[order[0]].display}
	}

	conflicting := make([]string, 0, len(order))
	for _, key := range order {
		conflicting = append(conflicting, seen[key].display)
	}
	return IdentityResult{Status: IdentityMismatch, ConflictingNames: conflicting}
}
