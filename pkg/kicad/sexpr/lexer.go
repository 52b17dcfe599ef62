package sexpr

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// Lexer defines the lexical structure of KiCad s-expression files.
// KiCad board files are plain s-expressions: parentheses, bare symbols,
// and double-quoted strings (which may contain spaces and escapes).
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments - some generators emit # comments between expressions
	{Name: "Comment", Pattern: `#[^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Parentheses
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},

	// Quoted string with escape sequences
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Bare symbol: anything up to whitespace, parens or a quote
	{Name: "Symbol", Pattern: `[^\s()"]+`},
})

// Token type lookups, resolved once from the lexer definition
var (
	symbols    = Lexer.Symbols()
	tokComment = symbols["Comment"]
	tokSpace   = symbols["Whitespace"]
	tokLParen  = symbols["LParen"]
	tokRParen  = symbols["RParen"]
	tokString  = symbols["String"]
	tokSymbol  = symbols["Symbol"]
)
