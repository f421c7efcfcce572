// Package cache provides the result cache for the aggregation pipeline.
// The cache is a pure optimization: corrupt entries, expired TTLs, IO
// errors and unreachable backends are all reported as a miss and
// recomputation is the recovery path.
package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
)

// Cache stores serialized pipeline bundles keyed by request hash.
type Cache interface {
	// Get returns the cached payload for key, or ok=false on any miss,
	// including expiry and read failures.
	Get(ctx context.Context, key string) (data []byte, ok bool)
	// Set stores payload under key. Failures are logged, never returned:
	// a cache that cannot write degrades to recomputation.
	Set(ctx context.Context, key string, data []byte)
}

// Key builds a stable cache key from the canonicalized request parts. The
// parts are marshaled with sorted map keys so logically identical requests
// hash identically across processes.
func Key(parts map[string]any) string {
	keys := make([]string, 0, len(parts))
	for k := range parts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	canonical := make([]byte, 0, 128)
	for _, k := range keys {
		v, err := json.Marshal(parts[k])
		if err != nil {
			v = []byte(fmt.Sprintf("%v", parts[k]))
		}
		canonical = append(canonical, k...)
		canonical = append(canonical, '=')
		canonical = append(canonical, v...)
		canonical = append(canonical, ';')
	}

	sum := md5.Sum(canonical)
	return hex.EncodeToString(sum[:])
}
