package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

// MaxSearchQueryLength is the longest label search accepted from a client.
const MaxSearchQueryLength = 100

var (
	errQueryTooLong     = errors.New("search query too long")
	errQueryInvalidChar = errors.New("search query contains invalid characters")
)

// dangerousPatterns flags SQL or markup fragments in a label search.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|alter|exec|execute)\b`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+['"].*['"]\s*=\s*['"].*['"]`),
	regexp.MustCompile(`(--|/\*|\*/)`),
	regexp.MustCompile(`(?i)\b(waitfor|benchmark|sleep)\b`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery trims query and rejects anything that is too long,
// looks like an injection attempt, or contains characters outside the
// allowed set. An empty query is valid and means "no filter".
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}
	if len(query) > MaxSearchQueryLength {
		return "", errQueryTooLong
	}

	query = strings.TrimSpace(query)

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return "", errQueryInvalidChar
		}
	}
	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", errQueryInvalidChar
		}
	}

	return query, nil
}

func isValidSearchChar(char rune) bool {
	if unicode.IsLetter(char) || unicode.IsNumber(char) {
		return true
	}
	switch char {
	case ' ', '-', '_', '.', '@', '+', '\'':
		return true
	}
	return false
}

// EscapeLike escapes LIKE wildcards so query matches literally. Callers
// must use `ESCAPE '\'` in the statement.
func EscapeLike(query string) string {
	if query == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return r.Replace(query)
}
