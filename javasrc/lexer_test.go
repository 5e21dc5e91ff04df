package javasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func lexAll(src string) []Token {
	l := NewLexer([]byte(src), "Test.java")
	var toks []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenEOF {
			return toks
		}
		if tok.Kind != TokenWhitespace {
			toks = append(toks, tok)
		}
	}
}

func TestLexer(t *testing.T) {
	tests := []struct {
		src   string
		kinds []TokenKind
	}{
		{"/** doc */", []TokenKind{TokenDocComment}},
		{"/**/ /* c */ // line", []TokenKind{TokenComment, TokenComment, TokenLineComment}},
		{"non-sealed class", []TokenKind{TokenIdent, TokenIdent}},
		{"non - sealed", []TokenKind{TokenIdent, TokenOperator, TokenIdent}},
		{"Map<K,List<V>>", []TokenKind{TokenIdent, TokenLT, TokenIdent, TokenComma, TokenIdent, TokenLT, TokenIdent, TokenGT, TokenGT}},
		{"x >>>= 1.5e-3f;", []TokenKind{TokenIdent, TokenGT, TokenGT, TokenGT, TokenAssign, TokenNumber, TokenSemicolon}},
		{`'\'' "a\"b" """
  text "block"
"""`, []TokenKind{TokenChar, TokenString, TokenTextBlock}},
		{"int... a -> b :: c == d", []TokenKind{TokenIdent, TokenEllipsis, TokenIdent, TokenOperator, TokenIdent, TokenOperator, TokenIdent, TokenOperator, TokenIdent}},
		{"café = 0x1F", []TokenKind{TokenIdent, TokenAssign, TokenNumber}},
	}
	for _, tt := range tests {
		var kinds []TokenKind
		for _, tok := range lexAll(tt.src) {
			kinds = append(kinds, tok.Kind)
		}
		assert.Equal(t, tt.kinds, kinds, tt.src)
	}
}

func TestLexerPositions(t *testing.T) {
	toks := lexAll("package p;\n\n  class A {}")
	if assert.Len(t, toks, 7) {
		assert.Equal(t, Position{File: "Test.java", Offset: 14, Line: 3, Column: 3}, toks[3].Pos)
		assert.Equal(t, "Test.java:3:3", toks[3].Pos.String())
	}
}
