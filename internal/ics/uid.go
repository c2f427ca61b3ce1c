package ics

import (
	"crypto/sha256"
	"encoding/hex"
)

// uidSuffix namespaces generated UIDs so they never collide with ids from
// other calendar producers.
const uidSuffix = "@bond-hockey-ics"

// StableUID derives a deterministic event UID from the team slug and the
// upstream source id. Identical inputs reproduce the same UID across runs,
// so subscribing calendars update events instead of duplicating them. The
// slug is part of the hash input: the same game exported for two configured
// teams yields two distinct UIDs.
func StableUID(teamSlug, sourceID string) string {
	sum := sha256.Sum256([]byte(teamSlug + ":" + sourceID))
	return hex.EncodeToString(sum[:])[:24] + uidSuffix
}
