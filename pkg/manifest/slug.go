package manifest

import "strings"

// maxSlugLen bounds screenshot file name length.
const maxSlugLen = 80

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters into a single hyphen, trimming leading and trailing hyphens and
// truncating to 80 characters. Idempotent: slugifying a slug is a no-op.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.TrimRight(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// FileSafeName returns the screenshot file name for an entry id.
func FileSafeName(id string) string {
	return Slugify(id) + ".png"
}
