package face

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/SitanshuA091/FACE-Approval-App/internal/constants"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Jiří" -> "Jiri").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeName trims a display name and collapses inner whitespace.
// The result is what gets stored in the registry and the attendance rows.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// Slug turns a name into a lowercase ASCII token safe for file names ("Jan Novák" -> "jan-novak").
func Slug(name string) string {
	name = strings.ToLower(RemoveDiacritics(name))
	var b strings.Builder
	dash := false
	for _, r := range name {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "person"
	}
	return slug
}

// SampleFileName returns a unique file name for an archived face sample of name.
func SampleFileName(name string) string {
	return Slug(name) + "_" + uuid.New().String() + constants.SampleExtension
}
