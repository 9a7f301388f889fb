// Package pattern collapses literal values in query text so that queries
// of the same shape share one grouping key.
//
// Both normalizers are textual: they work on the rendered query string, not
// on a parsed tree, and are pure functions of their input.
package pattern

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ValuePlaceholder replaces scalar values in rendered JSON commands.
const ValuePlaceholder = "<value>"

// LiteralPlaceholder replaces numeric and quoted literals in SQL statements.
const LiteralPlaceholder = "?"

// jsonValueRegex matches a colon and the scalar after it, up to a comma or a
// closing brace. The terminator is captured so it can be written back.
// A value holding braces or brackets never matches, so array elements are
// left untouched.
var jsonValueRegex = regexp.MustCompile(`(:\s*["']?[^,{}\[\]]+["']?\s*)([,}])`)

// sqlLiteralRegex matches decimal digit runs in any script and single-quoted
// strings. A digit run only counts as a literal when no word character
// touches it, see standalone.
var sqlLiteralRegex = regexp.MustCompile(`\p{Nd}+|'[^']*'`)

// JSONCommand normalizes a rendered MongoDB command.
//
//	{"find": "users", "filter": {"age": 30}}  ->  {"find":<value>, "filter": {"age":<value>}}
func JSONCommand(command string) string {
	return jsonValueRegex.ReplaceAllString(command, ":"+ValuePlaceholder+"${2}")
}

// SQLStatement normalizes a SQL statement: literals become "?" and the
// whole statement is upper-cased. Double-quoted and backtick-quoted text is
// not treated as a literal.
func SQLStatement(statement string) string {
	// A Caser keeps state between calls, so one is built per call.
	return cases.Upper(language.Und).String(replaceLiterals(statement))
}

func replaceLiterals(s string) string {
	var b strings.Builder
	last := 0
	for _, m := range sqlLiteralRegex.FindAllStringIndex(s, -1) {
		start, end := m[0], m[1]
		if s[start] != '\'' && !standalone(s, start, end) {
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString(LiteralPlaceholder)
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

// standalone reports whether s[start:end] sits on word boundaries at both
// ends. Word characters are letters and numbers of any script plus '_'.
func standalone(s string, start, end int) bool {
	before, _ := utf8.DecodeLastRuneInString(s[:start])
	after, _ := utf8.DecodeRuneInString(s[end:])
	return !isWordRune(before) && !isWordRune(after)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
