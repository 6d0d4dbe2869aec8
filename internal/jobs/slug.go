package jobs

import (
	"strconv"
	"strings"
	"time"
)

// Turkish letters map to their plain ASCII neighbours so slugs stay URL-safe.
var turkishASCII = map[rune]rune{
	'ç': 'c', 'Ç': 'c',
	'ğ': 'g', 'Ğ': 'g',
	'ı': 'i', 'I': 'i',
	'İ': 'i',
	'ö': 'o', 'Ö': 'o',
	'ş': 's', 'Ş': 's',
	'ü': 'u', 'Ü': 'u',
}

// SlugBase transliterates a title to a lowercase ASCII slug: locale letters
// are mapped to ASCII, non-alphanumeric runs collapse to single hyphens,
// and leading/trailing hyphens are trimmed.
func SlugBase(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range title {
		if mapped, ok := turkishASCII[r]; ok {
			r = mapped
		}
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r + ('a' - 'A'))
			lastHyphen = false
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// NewSlug appends a base-36 timestamp suffix to the transliterated title,
// guaranteeing uniqueness without a round-trip existence check.
func NewSlug(title string, now time.Time) string {
	base := SlugBase(title)
	suffix := strconv.FormatInt(now.UnixNano(), 36)
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
