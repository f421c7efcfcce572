package store

// protectFloor is the stored-revenue floor below which the sharp-drop rule
// does not apply; small figures swing legitimately.
const protectFloor = 1_000_000

// protectDropRatio marks an incoming value as suspicious when it falls
// below this fraction of the stored value (a drop of more than 70%).
const protectDropRatio = 0.3

// shouldProtect reports whether an incoming revenue value must be
// suppressed in favor of the stored one. Upstream scrapes intermittently
// return zeroed or truncated revenue for rows that previously had real
// figures; overwriting would destroy data that cannot be re-fetched.
func shouldProtect(stored, incoming float64) bool {
	if stored > 0 && incoming == 0 {
		return true
	}
	if stored > protectFloor && incoming < stored*protectDropRatio {
		return true
	}
	return false
}
