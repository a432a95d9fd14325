package poet

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var javaKeywords = map[string]struct{}{
	"abstract": {}, "assert": {}, "boolean": {}, "break": {}, "byte": {}, "case": {},
	"catch": {}, "char": {}, "class": {}, "const": {}, "continue": {}, "default": {},
	"do": {}, "double": {}, "else": {}, "enum": {}, "extends": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "goto": {}, "if": {}, "implements": {},
	"import": {}, "instanceof": {}, "int": {}, "interface": {}, "long": {}, "native": {},
	"new": {}, "package": {}, "private": {}, "protected": {}, "public": {}, "return": {},
	"short": {}, "static": {}, "strictfp": {}, "super": {}, "switch": {},
	"synchronized": {}, "this": {}, "throw": {}, "throws": {}, "transient": {},
	"try": {}, "void": {}, "volatile": {}, "while": {},
	"true": {}, "false": {}, "null": {}, "_": {},
}

// IsKeyword reports whether s is a reserved word or literal in Java.
func IsKeyword(s string) bool {
	_, ok := javaKeywords[s]
	return ok
}

// IsIdentifier reports whether s is lexically a Java identifier. Keywords
// pass this check; use IsName to exclude them.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first, size := utf8.DecodeRuneInString(s)
	if !identStart(first) {
		return false
	}
	for _, r := range s[size:] {
		if !identPart(r) {
			return false
		}
	}
	return true
}

// IsName reports whether every dot separated segment of s is an identifier
// that is not a keyword.
func IsName(s string) bool {
	for _, seg := range strings.Split(s, ".") {
		if !IsIdentifier(seg) || IsKeyword(seg) {
			return false
		}
	}
	return true
}

func identStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' ||
		unicode.Is(unicode.Sc, r) || unicode.Is(unicode.Pc, r) || unicode.Is(unicode.Nl, r)
}

func identPart(r rune) bool {
	return identStart(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r)
}

func checkName(kind, name string) error {
	if !IsIdentifier(name) || IsKeyword(name) {
		return markf(ErrInvalidName, "not a valid %s name: %q", kind, name)
	}
	return nil
}
