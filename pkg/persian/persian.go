// Package persian folds Persian text into a canonical form for storage and search.
package persian

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const tatweel = 'ـ'

var letterFold = map[rune]rune{
	'ي': 'ی',
	'ى': 'ی',
	'ئ': 'ی',
	'ك': 'ک',
	'ة': 'ه',
	'ۀ': 'ه',
	'ە': 'ه',
	'أ': 'ا',
	'إ': 'ا',
	'ٱ': 'ا',
	'ؤ': 'و',
}

func foldRune(r rune) rune {
	if f, ok := letterFold[r]; ok {
		return f
	}
	switch {
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	}
	return r
}

// diacritics covers Arabic harakat and the tatweel.
func isDiacritic(r rune) bool {
	return (r >= 'ً' && r <= 'ٟ') || r == 'ٰ' || r == tatweel
}

func newFolder() transform.Transformer {
	return transform.Chain(
		norm.NFD,
		runes.Remove(runes.Predicate(isDiacritic)),
		runes.Map(foldRune),
		norm.NFC,
	)
}

// Normalize folds Arabic letter variants to Persian, strips diacritics, converts digits to
// ASCII and collapses whitespace.
func Normalize(s string) string {
	out, _, err := transform.String(newFolder(), s)
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

// SearchKey is Normalize plus lower-casing for case-insensitive matching of Latin text.
func SearchKey(s string) string {
	return strings.ToLower(Normalize(s))
}

// DigitsToASCII converts Persian and Arabic-Indic digits and leaves everything else untouched.
func DigitsToASCII(s string) string {
	out, _, err := transform.String(runes.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}), s)
	if err != nil {
		return s
	}
	return out
}

// DigitsToPersian renders ASCII digits as Persian digits for display.
func DigitsToPersian(s string) string {
	var b strings.Builder
	b.Grow(len(s) * 2)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune('۰' + (r - '0'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizePhone keeps digits only and rewrites the +98/0098 country prefix to a leading zero.
func NormalizePhone(s string) string {
	s = DigitsToASCII(s)
	plus := strings.HasPrefix(strings.TrimSpace(s), "+")

	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) && r < 128 {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case plus && strings.HasPrefix(digits, "98"):
		digits = "0" + digits[2:]
	case strings.HasPrefix(digits, "0098"):
		digits = "0" + digits[4:]
	}
	return digits
}
