package record

import "strings"

// PlatformKey is the canonical form of a platform name. Upstream source data
// is inconsistently cased and spaced ("GS홈쇼핑", "gs홈쇼핑", "GS 홈쇼핑"),
// so every lookup table and membership set is built from normalized keys and
// every probe is normalized the same way, once, instead of scattering fuzzy
// matching through business logic.
type PlatformKey string

// NormalizeKey trims, case-folds, and collapses whitespace.
func NormalizeKey(name string) PlatformKey {
	s := strings.TrimSpace(name)
	s = strings.ToLower(s)
	if strings.ContainsAny(s, " \t") {
		s = strings.Join(strings.Fields(s), "")
	}
	return PlatformKey(s)
}

// KeySet is a membership set over normalized platform keys.
type KeySet map[PlatformKey]struct{}

// NewKeySet normalizes each name into a set.
func NewKeySet(names []string) KeySet {
	set := make(KeySet, len(names))
	for _, n := range names {
		set[NormalizeKey(n)] = struct{}{}
	}
	return set
}

// Contains reports membership of the normalized form of name.
func (s KeySet) Contains(name string) bool {
	_, ok := s[NormalizeKey(name)]
	return ok
}
