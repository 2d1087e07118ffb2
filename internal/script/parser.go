package script

import "pdxmill/internal/diag"

// Parse tokenizes and parses src into a generic tree. It always returns a
// usable root block: malformed statements are reported as diagnostics and the
// parser resynchronizes at the next statement boundary, so one bad statement
// never discards the rest of the file.
func Parse(src string) (*Node, []diag.Diagnostic) {
	toks, diags := Tokenize(src)
	p := &parser{toks: toks}
	root := p.parseBlock(true)
	return root, append(diags, p.diags...)
}

// parser is a single-token-lookahead recursive-descent parser. The one token
// of lookahead ("is the next non-comment token an '='?") is what decides
// key/value pair versus anonymous list item.
type parser struct {
	toks  []Token
	pos   int
	diags []diag.Diagnostic
}

// peek returns the next non-comment token without consuming it. Comments are
// preserved in the token stream for tooling but carry no parse semantics.
func (p *parser) peek() Token { return p.peekAhead(0) }

func (p *parser) peekAhead(n int) Token {
	seen := 0
	for i := p.pos; i < len(p.toks); i++ {
		if p.toks[i].Kind == TokenComment {
			continue
		}
		if seen == n {
			return p.toks[i]
		}
		seen++
	}
	return p.toks[len(p.toks)-1] // TokenEOF
}

func (p *parser) next() Token {
	for p.pos < len(p.toks) {
		t := p.toks[p.pos]
		if t.Kind != TokenEOF {
			p.pos++
		}
		if t.Kind == TokenComment {
			continue
		}
		return t
	}
	return p.toks[len(p.toks)-1]
}

// parseBlock parses entries until the matching '}' (or end of input at top
// level). The opening '{' has already been consumed by the caller.
func (p *parser) parseBlock(top bool) *Node {
	block := &Node{Entries: []Entry{}}
	for {
		t := p.peek()
		switch t.Kind {
		case TokenEOF:
			if !top {
				p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, t.Line, t.Column,
					"unexpected end of input inside block"))
			}
			return block

		case TokenCloseBlock:
			if top {
				p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, t.Line, t.Column,
					"stray '}'"))
				p.next()
				continue
			}
			p.next()
			return block

		case TokenOpenBlock:
			// Anonymous nested block.
			p.next()
			block.Entries = append(block.Entries, Entry{Value: p.parseBlock(false)})

		case TokenIdentifier, TokenNumber, TokenDate, TokenQuotedString:
			if isKeyCandidate(t.Kind) && p.peekAhead(1).Kind == TokenEquals {
				key := newScalar(p.next())
				p.next() // '='
				value, ok := p.parseValue()
				if !ok {
					p.resync()
					continue
				}
				block.Entries = append(block.Entries, Entry{Key: key, Value: value})
				continue
			}
			// Anonymous list item.
			block.Entries = append(block.Entries, Entry{Value: &Node{Scalar: newScalar(p.next())}})

		default: // '=' with no preceding key
			p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, t.Line, t.Column,
				"unexpected %s", t.Kind))
			p.next()
			p.resync()
		}
	}
}

// parseValue parses the right-hand side of 'key ='. Exactly one scalar token
// or one nested block.
func (p *parser) parseValue() (*Node, bool) {
	t := p.peek()
	switch t.Kind {
	case TokenOpenBlock:
		p.next()
		return p.parseBlock(false), true
	case TokenIdentifier, TokenNumber, TokenDate, TokenQuotedString:
		// A scalar that is itself followed by '=' is the next statement's
		// key, meaning this statement's value is missing.
		if isKeyCandidate(t.Kind) && p.peekAhead(1).Kind == TokenEquals {
			p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, t.Line, t.Column,
				"missing value before %q", t.Raw))
			return nil, false
		}
		return &Node{Scalar: newScalar(p.next())}, true
	default:
		p.diags = append(p.diags, diag.Errorf(diag.SyntaxError, t.Line, t.Column,
			"expected value after '=', found %s", t.Kind))
		return nil, false
	}
}

// resync skips tokens until something that looks like a new statement
// boundary: a key-like token followed by '=', or a block delimiter. This is
// what keeps one malformed statement from eating the rest of the file.
func (p *parser) resync() {
	for {
		t := p.peek()
		switch t.Kind {
		case TokenEOF, TokenOpenBlock, TokenCloseBlock:
			return
		case TokenIdentifier, TokenNumber, TokenDate:
			if p.peekAhead(1).Kind == TokenEquals {
				return
			}
		}
		p.next()
	}
}

func isKeyCandidate(k TokenKind) bool {
	return k == TokenIdentifier || k == TokenNumber || k == TokenDate
}
