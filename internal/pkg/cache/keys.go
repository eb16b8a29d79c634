package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"sort"
	"strings"
)

// Prefix namespaces every content cache key.
const Prefix = "d5b:"

// Key builds the canonical cache key for (entity, operation, params).
// Parameters are serialized sorted by name and hashed, so two parameter maps
// with the same contents always produce the same key regardless of map order.
func Key(entity, operation string, params map[string]string) string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(params[name])
	}

	sum := sha1.Sum([]byte(b.String()))
	return Prefix + entity + ":" + operation + ":" + hex.EncodeToString(sum[:])
}
