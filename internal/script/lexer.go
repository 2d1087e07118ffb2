package script

import (
	"strings"
	"unicode"

	"pdxmill/internal/diag"
	"pdxmill/internal/pdxdate"
)

// Lexer produces tokens from a source string. Each Tokenize call builds a
// fresh Lexer, so re-tokenizing the same text never shares cursor state.
type Lexer struct {
	src   string
	runes []rune
	pos   int
	line  int
	col   int
	diags []diag.Diagnostic
}

// NewLexer returns a Lexer positioned at the start of src.
func NewLexer(src string) *Lexer {
	return &Lexer{
		src:   src,
		runes: []rune(src),
		line:  1,
		col:   1,
	}
}

// Tokenize scans all of src and returns the token stream (terminated by a
// TokenEOF) together with any lexical diagnostics. It never fails: unknown
// characters are reported and skipped.
func Tokenize(src string) ([]Token, []diag.Diagnostic) {
	lx := NewLexer(src)
	var toks []Token
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == TokenEOF {
			break
		}
	}
	return toks, lx.Diagnostics()
}

// Diagnostics returns the lexical errors recorded so far.
func (lx *Lexer) Diagnostics() []diag.Diagnostic { return lx.diags }

// Next returns the next token, or a TokenEOF token once input is exhausted.
// Calling Next past the end keeps returning TokenEOF.
func (lx *Lexer) Next() Token {
	for lx.pos < len(lx.runes) {
		r := lx.runes[lx.pos]
		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			lx.advance()
		case r == '#':
			return lx.lexComment()
		case r == '"':
			return lx.lexQuoted()
		case r == '=':
			return lx.lexSymbol(TokenEquals)
		case r == '{':
			return lx.lexSymbol(TokenOpenBlock)
		case r == '}':
			return lx.lexSymbol(TokenCloseBlock)
		case isWordRune(r) || (r == '-' && lx.peekAt(1) != 0 && isWordRune(lx.peekAt(1))):
			return lx.lexWord()
		default:
			lx.diags = append(lx.diags, diag.Errorf(diag.LexicalError, lx.line, lx.col,
				"unrecognized character %q", string(r)))
			lx.advance()
		}
	}
	return Token{Kind: TokenEOF, Line: lx.line, Column: lx.col}
}

func (lx *Lexer) lexSymbol(kind TokenKind) Token {
	t := Token{Kind: kind, Raw: string(lx.runes[lx.pos]), Line: lx.line, Column: lx.col}
	lx.advance()
	return t
}

func (lx *Lexer) lexComment() Token {
	line, col := lx.line, lx.col
	start := lx.pos
	for lx.pos < len(lx.runes) && lx.runes[lx.pos] != '\n' {
		lx.advance()
	}
	return Token{Kind: TokenComment, Raw: string(lx.runes[start:lx.pos]), Line: line, Column: col}
}

func (lx *Lexer) lexQuoted() Token {
	line, col := lx.line, lx.col
	start := lx.pos
	lx.advance() // opening quote
	for lx.pos < len(lx.runes) {
		r := lx.runes[lx.pos]
		if r == '\\' && lx.peekAt(1) != 0 && lx.runes[lx.pos+1] != '\n' {
			lx.advance()
			lx.advance()
			continue
		}
		if r == '"' {
			lx.advance()
			return Token{Kind: TokenQuotedString, Raw: string(lx.runes[start:lx.pos]), Line: line, Column: col}
		}
		if r == '\n' {
			break
		}
		lx.advance()
	}
	// Unterminated: recover by taking the rest of the line as the body.
	lx.diags = append(lx.diags, diag.Errorf(diag.LexicalError, line, col, "unterminated string"))
	return Token{Kind: TokenQuotedString, Raw: string(lx.runes[start:lx.pos]), Line: line, Column: col}
}

// lexWord scans a maximal run of word runes and classifies it as a date,
// number, or identifier. Dates win over numbers so 1444.11.11 is never read
// as a malformed float.
func (lx *Lexer) lexWord() Token {
	line, col := lx.line, lx.col
	start := lx.pos
	if lx.runes[lx.pos] == '-' {
		lx.advance()
	}
	for lx.pos < len(lx.runes) && isWordRune(lx.runes[lx.pos]) {
		lx.advance()
	}
	raw := string(lx.runes[start:lx.pos])
	t := Token{Kind: TokenIdentifier, Raw: raw, Line: line, Column: col}

	if isDateShape(raw) {
		d, err := pdxdate.Parse(raw)
		if err != nil {
			lx.diags = append(lx.diags, diag.Errorf(diag.LexicalError, line, col,
				"malformed date %q", raw))
			return t
		}
		t.Kind = TokenDate
		t.Date = d
		return t
	}
	if isNumberShape(raw) {
		t.Kind = TokenNumber
	}
	return t
}

func (lx *Lexer) advance() {
	if lx.runes[lx.pos] == '\n' {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	lx.pos++
}

// peekAt returns the rune at offset from the cursor, or 0 past the end.
func (lx *Lexer) peekAt(offset int) rune {
	if lx.pos+offset >= len(lx.runes) {
		return 0
	}
	return lx.runes[lx.pos+offset]
}

// isWordRune reports whether r may appear inside an identifier, number, or
// date token. Letters cover non-ASCII scripts so accented and native-script
// names lex as single identifiers. Dots, apostrophes, and hyphens occur in
// game identifiers and in date/number literals.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) ||
		r == '_' || r == '.' || r == '\'' || r == '-' || r == ':'
}

// isDateShape matches digits '.' digits '.' digits.
func isDateShape(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if !isDigits(p) {
			return false
		}
	}
	return true
}

// isNumberShape matches an optionally signed integer with an optional
// fractional part.
func isNumberShape(s string) bool {
	if strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if !isDigits(whole) {
		return false
	}
	if hasDot && !isDigits(frac) {
		return false
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
