// Package locale decides which of the two text variants to show. Every
// language check in the app goes through Detect.
package locale

import (
	"os"
	"strings"

	"golang.org/x/text/language"

	"thoughts/internal/domain"
)

var arabic = language.MustParseBase("ar")

// Detect maps a BCP 47 or POSIX locale string ("ar", "ar_SA.UTF-8",
// "en-US") to a Language. Anything that is not Arabic is English.
func Detect(tag string) domain.Language {
	tag = strings.TrimSpace(tag)
	if i := strings.IndexAny(tag, ".@"); i >= 0 {
		tag = tag[:i]
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	if tag == "" {
		return domain.LanguageEnglish
	}

	parsed, err := language.Parse(tag)
	if err != nil && parsed == language.Und {
		return domain.LanguageEnglish
	}
	if base, _ := parsed.Base(); base == arabic {
		return domain.LanguageArabic
	}
	return domain.LanguageEnglish
}

// FromEnvironment detects the language from THOUGHTS_LOCALE, then the usual
// POSIX locale variables.
func FromEnvironment() domain.Language {
	for _, key := range []string{"THOUGHTS_LOCALE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return Detect(value)
		}
	}
	return domain.LanguageEnglish
}

// Normalize maps any value to one of the two supported languages.
func Normalize(lang domain.Language) domain.Language {
	if lang == domain.LanguageArabic {
		return lang
	}
	return Detect(string(lang))
}

// RightToLeft reports whether text in lang is laid out right to left.
func RightToLeft(lang domain.Language) bool {
	return Normalize(lang) == domain.LanguageArabic
}
