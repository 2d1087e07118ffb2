// Package script tokenizes and parses Paradox-style declarative script files
// into a generic ordered tree. Parsing is fault tolerant: malformed input
// produces diagnostics and a best-effort tree, never a hard failure.
package script

import "pdxmill/internal/pdxdate"

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenIdentifier TokenKind = iota
	TokenNumber
	TokenDate
	TokenQuotedString
	TokenEquals
	TokenOpenBlock
	TokenCloseBlock
	TokenComment
	TokenEOF
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdentifier:
		return "identifier"
	case TokenNumber:
		return "number"
	case TokenDate:
		return "date"
	case TokenQuotedString:
		return "string"
	case TokenEquals:
		return "'='"
	case TokenOpenBlock:
		return "'{'"
	case TokenCloseBlock:
		return "'}'"
	case TokenComment:
		return "comment"
	case TokenEOF:
		return "end of input"
	default:
		return "unknown"
	}
}

// Token is one lexical unit with its position in the source.
// Raw is the exact source text, quotes included for quoted strings.
// Date is set only for TokenDate.
type Token struct {
	Kind   TokenKind
	Raw    string
	Date   pdxdate.Date
	Line   int
	Column int
}

// Text returns the semantic text of the token: the unescaped body for a
// quoted string, Raw for everything else.
func (t Token) Text() string {
	if t.Kind != TokenQuotedString {
		return t.Raw
	}
	return unquote(t.Raw)
}

// unquote strips the surrounding quotes (either may be missing after lexical
// recovery) and decodes the declared escapes \" and \\. A trailing escaped
// quote is string body, not a closing delimiter.
func unquote(raw string) string {
	s := raw
	if len(s) > 0 && s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' && !escapedAt(s, len(s)-1) {
		s = s[:len(s)-1]
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		out = append(out, s[i])
	}
	return string(out)
}

// escapedAt reports whether the byte at index i sits behind an odd run of
// backslashes.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}
