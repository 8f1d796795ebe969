package eval

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes the expression dialect. Ordered longest-match-first so
// that two-character operators ("==", "&&", "<<", ...) are never split into
// their single-character prefixes.
var exprLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Float", Pattern: `[0-9]+\.[0-9]+`},
	{Name: "Hex", Pattern: `0[xX][0-9a-fA-F]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "String", Pattern: `"(\\.|[^"])*"`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `==|!=|<=|>=|&&|\|\||<<|>>|[-+*/%&|^!~<>?:.,()#]`},
})

var exprParser = participle.MustBuild[Expression](
	participle.Lexer(exprLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(8),
	participle.Unquote("String"),
)

// parse parses expr into an AST.
func parse(expr string) (*Expression, error) {
	return exprParser.ParseString("", expr)
}
