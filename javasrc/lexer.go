package javasrc

import (
	"unicode"
	"unicode/utf8"
)

// A Lexer splits Java source text into tokens. It returns every token,
// whitespace and comments included.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) peekRune() rune {
	if l.pos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return r
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	if ch >= utf8.RuneSelf {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		l.pos += size
		l.column++
		return ch
	}
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) NextToken() Token {
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Pos: start}
	}

	ch := l.peek()

	if ch == '/' && l.peekN(1) == '/' {
		return l.scanLineComment(start)
	}
	if ch == '/' && l.peekN(1) == '*' {
		return l.scanBlockComment(start)
	}
	if isSpace(ch) {
		for isSpace(l.peek()) {
			l.advance()
		}
		return l.token(TokenWhitespace, start)
	}
	if isJavaLetter(l.peekRune()) {
		return l.scanIdent(start)
	}
	if isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))) {
		return l.scanNumber(start)
	}
	if ch == '\'' {
		return l.scanQuoted(start, '\'', TokenChar)
	}
	if ch == '"' {
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenString)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	l.advanceN(2)
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenLineComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	kind := TokenComment
	// "/**/" is an empty ordinary comment.
	if l.peekN(2) == '*' && l.peekN(3) != '/' {
		kind = TokenDocComment
	}
	l.advanceN(2)
	for {
		if l.pos >= len(l.input) {
			return l.errorToken(start, "unterminated comment")
		}
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			break
		}
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanIdent(start Position) Token {
	for isJavaLetterOrDigit(l.peekRune()) {
		l.advance()
	}
	tok := l.token(TokenIdent, start)

	if tok.Literal == "non" && l.peek() == '-' {
		rest := l.input[l.pos:]
		if len(rest) >= 7 && string(rest[:7]) == "-sealed" {
			if len(rest) == 7 || !isJavaLetterOrDigit(rune(rest[7])) {
				l.advanceN(7)
				return l.token(TokenIdent, start)
			}
		}
	}
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	// Precision does not matter here; consume everything that can
	// appear in a numeric literal, including exponents and suffixes.
	for {
		ch := l.peek()
		switch {
		case isDigit(ch), ch == '_', isLetter(ch), ch == '.' && isDigit(l.peekN(1)):
			if (ch == 'e' || ch == 'E' || ch == 'p' || ch == 'P') && (l.peekN(1) == '+' || l.peekN(1) == '-') {
				l.advance()
			}
			l.advance()
		default:
			return l.token(TokenNumber, start)
		}
	}
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for l.peek() != quote {
		if l.pos >= len(l.input) || l.peek() == '\n' {
			return l.errorToken(start, "unterminated literal")
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	l.advance()
	return l.token(kind, start)
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for {
		if l.pos >= len(l.input) {
			return l.errorToken(start, "unterminated text block")
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
}

var punctuation = map[byte]TokenKind{
	'(': TokenLParen,
	')': TokenRParen,
	'{': TokenLBrace,
	'}': TokenRBrace,
	'[': TokenLBracket,
	']': TokenRBracket,
	';': TokenSemicolon,
	',': TokenComma,
	'@': TokenAt,
	'?': TokenQuestion,
	// Angle brackets are always single tokens, so that nested type
	// arguments close one level at a time. Shift operators only occur
	// inside skipped expressions.
	'<': TokenLT,
	'>': TokenGT,
}

func (l *Lexer) scanOperator(start Position) Token {
	ch := l.peek()
	if kind, ok := punctuation[ch]; ok {
		l.advance()
		return l.token(kind, start)
	}
	switch ch {
	case '.':
		if l.peekN(1) == '.' && l.peekN(2) == '.' {
			l.advanceN(3)
			return l.token(TokenEllipsis, start)
		}
		l.advance()
		return l.token(TokenDot, start)
	case '=':
		if l.peekN(1) == '=' {
			l.advanceN(2)
			return l.token(TokenOperator, start)
		}
		l.advance()
		return l.token(TokenAssign, start)
	case ':', '!', '&', '|', '^', '+', '-', '*', '/', '%', '~':
		l.advance()
		if l.peek() == '=' || (l.peek() == ch && ch != '!' && ch != '~') || (ch == '-' && l.peek() == '>') || (ch == ':' && l.peek() == ':') {
			l.advance()
		}
		return l.token(TokenOperator, start)
	}
	l.advance()
	return l.errorToken(start, "unexpected character")
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	return Token{
		Kind:    kind,
		Pos:     start,
		Literal: string(l.input[start.Offset:l.pos]),
	}
}

func (l *Lexer) errorToken(start Position, msg string) Token {
	return Token{Kind: TokenError, Pos: start, Literal: msg}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isJavaLetter(r rune) bool {
	if r < utf8.RuneSelf {
		return isLetter(byte(r)) || r == '_' || r == '$'
	}
	return unicode.IsLetter(r)
}

func isJavaLetterOrDigit(r rune) bool {
	if r < utf8.RuneSelf {
		return isJavaLetter(r) || isDigit(byte(r))
	}
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
