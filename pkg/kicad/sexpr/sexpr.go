// Package sexpr reads the s-expression syntax used by KiCad board and
// footprint files. Quoted strings are kept as single atoms, so values
// containing spaces (net names, titles) survive tokenization intact.
package sexpr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// Value is a single s-expression node: either an atom or a list.
type Value struct {
	Atom   string  // atom text with surrounding quotes removed
	Quoted bool    // whether the atom came from a quoted string
	IsList bool    // true for (...) nodes; List holds the children
	List   []Value // children of a list node
}

// Parse reads all top-level s-expressions from r.
func Parse(r io.Reader) ([]Value, error) {
	lx, err := Lexer.Lex("", r)
	if err != nil {
		return nil, fmt.Errorf("failed to start lexer: %w", err)
	}

	p := &parser{lx: lx}
	if err := p.advance(); err != nil {
		return nil, err
	}

	var result []Value
	for p.tok.Type != lexer.EOF {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}

// ParseString reads all top-level s-expressions from a string.
func ParseString(input string) ([]Value, error) {
	return Parse(strings.NewReader(input))
}

// parser holds the token cursor while building Values.
type parser struct {
	lx  lexer.Lexer
	tok lexer.Token
}

// advance reads the next significant token, skipping whitespace and comments.
func (p *parser) advance() error {
	for {
		tok, err := p.lx.Next()
		if err != nil {
			return fmt.Errorf("lex error: %w", err)
		}
		if tok.Type == tokSpace || tok.Type == tokComment {
			continue
		}
		p.tok = tok
		return nil
	}
}

// parseValue parses one expression starting at the current token and
// leaves the cursor on the token after it.
func (p *parser) parseValue() (Value, error) {
	switch p.tok.Type {
	case tokLParen:
		return p.parseList()

	case tokSymbol:
		v := Value{Atom: p.tok.Value}
		return v, p.advance()

	case tokString:
		text, err := unquote(p.tok.Value)
		if err != nil {
			return Value{}, fmt.Errorf("bad string literal at %s: %w", p.tok.Pos, err)
		}
		v := Value{Atom: text, Quoted: true}
		return v, p.advance()

	case tokRParen:
		return Value{}, fmt.Errorf("unexpected ')' at %s", p.tok.Pos)

	case lexer.EOF:
		return Value{}, fmt.Errorf("unexpected EOF")

	default:
		return Value{}, fmt.Errorf("unexpected token %q at %s", p.tok.Value, p.tok.Pos)
	}
}

// parseList parses a ( ... ) node. The cursor is on the opening paren.
func (p *parser) parseList() (Value, error) {
	if err := p.advance(); err != nil {
		return Value{}, err
	}

	v := Value{IsList: true}
	for {
		switch p.tok.Type {
		case tokRParen:
			return v, p.advance()
		case lexer.EOF:
			return Value{}, fmt.Errorf("unexpected EOF in list")
		default:
			child, err := p.parseValue()
			if err != nil {
				return Value{}, err
			}
			v.List = append(v.List, child)
		}
	}
}

// unquote strips the surrounding quotes and resolves escape sequences.
func unquote(s string) (string, error) {
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted, nil
	}
	// KiCad writes a few escapes strconv rejects (e.g. \/); fall back to
	// a permissive pass.
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return "", fmt.Errorf("not a quoted string: %q", s)
	}
	body := s[1 : len(s)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			switch body[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(body[i])
			}
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String(), nil
}
