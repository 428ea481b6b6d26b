// Package casing converts free text and dependency names between the
// identifier styles used by generated feature documents.
//
// All functions are total: any input, including the empty string and
// single characters, produces a well-formed identifier. Runs of characters
// that are neither letters nor digits act as word separators and never
// survive into the output.
//
//	casing.CamelCase("spring boot starter web")  // "springBootStarterWeb"
//	casing.ScreamingSnakeCase("spring-boot")     // "SPRING_BOOT_VERSION"
//	casing.TitleCase("springBootStarterWeb")     // "Spring Boot Starter Web"
//	casing.KebabCase("springBootStarterWeb")     // "spring-boot-starter-web"
package casing

import (
	"strings"
	"unicode"
)

const (
	// BlankCamel is returned by CamelCase when the input has no letters or digits.
	BlankCamel = "blank"
	// VersionSuffix terminates every key produced by ScreamingSnakeCase.
	VersionSuffix = "_VERSION"
	// BlankVersionKey is returned by ScreamingSnakeCase for input without letters or digits.
	BlankVersionKey = "BLANK" + VersionSuffix
	// BlankKebab is returned by KebabCase when the input has no letters or digits.
	BlankKebab = "export"
	// PropertySuffix is appended by VersionProperty.
	PropertySuffix = "Version"
)

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// CamelCase lower-cases text and joins its words, upper-casing the first
// letter of every word after the first.
func CamelCase(text string) string {
	var b strings.Builder
	capitalize := false
	for _, r := range strings.ToLower(text) {
		if !isAlnum(r) {
			capitalize = b.Len() > 0
			continue
		}
		if capitalize {
			r = unicode.ToUpper(r)
			capitalize = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return BlankCamel
	}
	return b.String()
}

// ScreamingSnakeCase upper-cases text, collapses every separator run into a
// single underscore and appends VersionSuffix.
func ScreamingSnakeCase(text string) string {
	var b strings.Builder
	separate := false
	for _, r := range strings.ToUpper(text) {
		if !isAlnum(r) {
			separate = b.Len() > 0
			continue
		}
		if separate {
			b.WriteByte('_')
			separate = false
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return BlankVersionKey
	}
	return b.String() + VersionSuffix
}

// TitleCase splits a camelCase identifier into capitalized, space separated
// words. A word starts at an upper-case letter that follows a lower-case
// one, or at the first letter or digit after a separator run.
func TitleCase(camel string) string {
	var b strings.Builder
	var last rune
	newWord := true
	for _, r := range camel {
		if !isAlnum(r) {
			newWord = true
			continue
		}
		switch {
		case b.Len() == 0:
			r = unicode.ToUpper(r)
		case newWord:
			b.WriteByte(' ')
			r = unicode.ToUpper(r)
		case unicode.IsUpper(r) && unicode.IsLower(last):
			b.WriteByte(' ')
		}
		newWord = false
		last = r
		b.WriteRune(r)
	}
	return b.String()
}

// KebabCase lower-cases a camelCase identifier, inserting a dash before an
// upper-case letter that follows a lower-case letter or digit in the middle
// of a word, and in place of every separator run.
func KebabCase(camel string) string {
	var b strings.Builder
	newWord := false
	middle := false
	for _, r := range camel {
		if !isAlnum(r) {
			newWord = b.Len() > 0
			continue
		}
		switch {
		case newWord:
			b.WriteByte('-')
			middle = false
			newWord = false
		case unicode.IsUpper(r) && middle:
			b.WriteByte('-')
			middle = false
		default:
			middle = b.Len() > 0 && (unicode.IsLower(r) || unicode.IsDigit(r))
		}
		b.WriteRune(unicode.ToLower(r))
	}
	if b.Len() == 0 {
		return BlankKebab
	}
	return b.String()
}

// VersionProperty derives the version-property identifier for a dependency
// name, e.g. "web-starter" becomes "webStarterVersion".
func VersionProperty(name string) string {
	return CamelCase(name) + PropertySuffix
}
