// Package slug derives URL slugs from titles and resolves collisions.
package slug

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Fallback is used when a title has no sluggable characters.
const Fallback = "story"

var transliterations = map[rune]string{
	'ä': "ae", 'ö': "oe", 'ü': "ue", 'ß': "ss",
	'à': "a", 'á': "a", 'â': "a", 'ã': "a", 'å': "a",
	'ç': "c", 'è': "e", 'é': "e", 'ê': "e", 'ë': "e",
	'ì': "i", 'í': "i", 'î': "i", 'ï': "i", 'ñ': "n",
	'ò': "o", 'ó': "o", 'ô': "o", 'õ': "o", 'ø': "o",
	'ù': "u", 'ú': "u", 'û': "u", 'ý': "y", 'ÿ': "y",
	'&': "and",
}

// Make case-folds s and collapses every run of whitespace or punctuation into
// a single hyphen. "Hello,  World!" becomes "hello-world".
func Make(s string) string {
	return MakeOr(s, Fallback)
}

// MakeOr is Make with a caller-chosen fallback for unsluggable input.
func MakeOr(s, fallback string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case transliterations[r] != "":
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteString(transliterations[r])
		case r == '\'' || r == '’':
			// apostrophes vanish: "Rita's" -> "ritas"
		default:
			pendingHyphen = true
		}
	}
	if b.Len() == 0 {
		return fallback
	}
	return b.String()
}

// ExistsFunc reports whether a candidate slug is already taken by another row.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base if free, otherwise the first free base-1, base-2, ...
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
