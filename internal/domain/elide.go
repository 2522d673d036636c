package domain

import "regexp"

var (
	// Comments and literals in one alternation, so a "/*" inside a string or
	// a quote inside a comment is consumed by the construct that encloses it.
	commentOrLiteral = regexp.MustCompile(`(?ms)//.*?$|/\*.*?\*/|'(?:\\.|[^\\'])*'|"(?:\\.|[^\\"])*"`)

	annotationComment = regexp.MustCompile(`^/\*\s*\[clar\]:`)
)

// ElideComments removes line and block comments from C source text. String
// and character literals are kept as they are, as are annotation comments of
// the form "/* [clar]: ... */".
func ElideComments(text string) string {
	return commentOrLiteral.ReplaceAllStringFunc(text, func(match string) string {
		if match[0] != '/' {
			return match
		}

		if annotationComment.MatchString(match) {
			return match
		}

		return ""
	})
}
