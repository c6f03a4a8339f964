/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package emit

import (
	"strings"
	"unicode"
)

// SplitIntoWords splits on any non-alphanumeric rune, on lower-to-upper
// transitions, and at the end of an acronym ("SportBILDText" yields
// Sport, BILD, Text). Digits attach to the preceding word.
func SplitIntoWords(s string) []string {
	var words []string
	var current []rune
	runes := []rune(s)

	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if unicode.IsUpper(r) && len(current) > 0 {
			prev := current[len(current)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	r := []rune(strings.ToLower(word))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func startsWithDigit(word string) bool {
	return word != "" && unicode.IsDigit([]rune(word)[0])
}

// ToCamelCase converts a path or name to camelCase. Words starting with a
// digit are joined with an underscore so the result splits back identically
// and stays a valid identifier.
func ToCamelCase(s string) string {
	var sb strings.Builder
	for i, w := range SplitIntoWords(s) {
		switch {
		case startsWithDigit(w):
			sb.WriteString("_" + strings.ToLower(w))
		case i == 0:
			sb.WriteString(strings.ToLower(w))
		default:
			sb.WriteString(capitalize(w))
		}
	}
	return sb.String()
}

// ToPascalCase converts a path or name to PascalCase.
func ToPascalCase(s string) string {
	var sb strings.Builder
	for i, w := range SplitIntoWords(s) {
		if startsWithDigit(w) {
			if i == 0 {
				sb.WriteString("_")
			}
			sb.WriteString(strings.ToLower(w))
			continue
		}
		sb.WriteString(capitalize(w))
	}
	return sb.String()
}

// ToKebabCase converts a path or name to kebab-case. This is the canonical
// form every platform identifier maps back to.
func ToKebabCase(s string) string {
	return strings.ToLower(strings.Join(SplitIntoWords(s), "-"))
}

// Canonical returns the canonical name of a variable path.
func Canonical(path string) string {
	return ToKebabCase(path)
}

// Slug turns a mode name into a lower-case selector and file name segment.
func Slug(name string) string {
	return ToKebabCase(name)
}
