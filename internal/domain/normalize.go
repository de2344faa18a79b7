package domain

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeTownName folds compatibility and combining-character variants of a
// town name into NFKC, so a precomposed "é" and "e" + U+0301 compare equal.
func NormalizeTownName(s string) string {
	return norm.NFKC.String(strings.TrimSpace(s))
}

// NormalizeLanguage returns the canonical BCP-47 form of lang.
// An empty value yields DefaultLanguage.
func NormalizeLanguage(lang string) (string, error) {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage, nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", ErrInvalidField("lang", "not a language tag")
	}
	return tag.String(), nil
}
