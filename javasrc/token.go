package javasrc

import "fmt"

// A Position locates a token in a source file. Line and Column start
// at 1.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenError
	TokenWhitespace
	TokenComment
	TokenLineComment
	TokenDocComment

	TokenIdent
	TokenNumber
	TokenChar
	TokenString
	TokenTextBlock

	TokenLParen
	TokenRParen
	TokenLBrace
	TokenRBrace
	TokenLBracket
	TokenRBracket
	TokenSemicolon
	TokenComma
	TokenDot
	TokenEllipsis
	TokenAt
	TokenAssign
	TokenLT
	TokenGT
	TokenQuestion
	// Any other operator. Expressions are skipped, not parsed, so
	// operators are not told apart.
	TokenOperator
)

var tokenNames = map[TokenKind]string{
	TokenEOF:         "end of file",
	TokenError:       "invalid character",
	TokenWhitespace:  "whitespace",
	TokenComment:     "comment",
	TokenLineComment: "comment",
	TokenDocComment:  "doc comment",
	TokenIdent:       "identifier",
	TokenNumber:      "number",
	TokenChar:        "character literal",
	TokenString:      "string literal",
	TokenTextBlock:   "text block",
	TokenLParen:      "'('",
	TokenRParen:      "')'",
	TokenLBrace:      "'{'",
	TokenRBrace:      "'}'",
	TokenLBracket:    "'['",
	TokenRBracket:    "']'",
	TokenSemicolon:   "';'",
	TokenComma:       "','",
	TokenDot:         "'.'",
	TokenEllipsis:    "'...'",
	TokenAt:          "'@'",
	TokenAssign:      "'='",
	TokenLT:          "'<'",
	TokenGT:          "'>'",
	TokenQuestion:    "'?'",
	TokenOperator:    "operator",
}

func (k TokenKind) String() string {
	if s, ok := tokenNames[k]; ok {
		return s
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// A Token is a lexical token. Doc holds the text of the last doc
// comment seen between the previous significant token and this one.
type Token struct {
	Kind    TokenKind
	Pos     Position
	Literal string
	Doc     string
}

func (t Token) is(kind TokenKind, literal string) bool {
	return t.Kind == kind && t.Literal == literal
}

func (t Token) isWord(word string) bool {
	return t.is(TokenIdent, word)
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true,
	"byte": true, "case": true, "catch": true, "char": true, "class": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extends": true,
	"final": true, "finally": true, "float": true, "for": true, "goto": true,
	"if": true, "implements": true, "import": true, "instanceof": true,
	"int": true, "interface": true, "long": true, "native": true, "new": true,
	"package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true,
	"super": true, "switch": true, "synchronized": true, "this": true,
	"throw": true, "throws": true, "transient": true, "try": true,
	"void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

// IsKeyword reports whether s is a reserved word of the Java language.
// Contextual keywords such as record and sealed are not included.
func IsKeyword(s string) bool {
	return keywords[s]
}

var modifiers = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "strictfp": true, "transient": true,
	"volatile": true, "synchronized": true, "native": true, "default": true,
	"sealed": true, "non-sealed": true,
}

var primitives = map[string]bool{
	"boolean": true, "byte": true, "char": true, "short": true, "int": true,
	"long": true, "float": true, "double": true, "void": true,
}
