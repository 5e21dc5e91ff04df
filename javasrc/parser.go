package javasrc

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// A SyntaxError reports source text the scanner could not make sense
// of.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ParseFile reads and parses the named Java source file.
func ParseFile(path string) (*CompilationUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(path, src)
}

// Parse scans the declarations of a Java compilation unit. Method
// bodies, initializers and annotation element values that are not
// literals are skipped without being checked. The file name is used in
// positions and errors.
func Parse(file string, src []byte) (*CompilationUnit, error) {
	toks, err := tokenize(file, src)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, toks: toks}
	return p.compilationUnit()
}

// tokenize drops whitespace and comments, attaching each doc comment
// to the token that follows it.
func tokenize(file string, src []byte) ([]Token, error) {
	lex := NewLexer(src, file)
	var toks []Token
	var doc string
	for {
		tok := lex.NextToken()
		switch tok.Kind {
		case TokenWhitespace, TokenComment, TokenLineComment:
			continue
		case TokenDocComment:
			doc = tok.Literal
			continue
		case TokenError:
			return nil, &SyntaxError{Pos: tok.Pos, Msg: tok.Literal}
		}
		tok.Doc = doc
		doc = ""
		toks = append(toks, tok)
		if tok.Kind == TokenEOF {
			return toks, nil
		}
	}
}

type parser struct {
	file string
	toks []Token
	pos  int
}

func (p *parser) peek() Token {
	return p.peekN(0)
}

func (p *parser) peekN(n int) Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) next() Token {
	tok := p.peek()
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok Token, format string, args ...interface{}) error {
	return &SyntaxError{Pos: tok.Pos, Msg: fmt.Sprintf(format, args...)}
}

func describe(tok Token) string {
	if tok.Kind == TokenIdent {
		return strconv.Quote(tok.Literal)
	}
	return tok.Kind.String()
}

func (p *parser) expect(kind TokenKind) (Token, error) {
	tok := p.next()
	if tok.Kind != kind {
		return tok, p.errorf(tok, "expected %s, found %s", kind, describe(tok))
	}
	return tok, nil
}

func (p *parser) ident() (Token, error) {
	tok, err := p.expect(TokenIdent)
	if err == nil && IsKeyword(tok.Literal) {
		err = p.errorf(tok, "expected identifier, found keyword %q", tok.Literal)
	}
	return tok, err
}

func (p *parser) compilationUnit() (*CompilationUnit, error) {
	unit := &CompilationUnit{File: p.file}

	start := p.pos
	doc := p.peek().Doc
	h, err := p.head()
	if err != nil {
		return nil, err
	}
	if p.peek().isWord("package") {
		if doc == "" {
			doc = p.peek().Doc
		}
		p.next()
		name, err := p.qualifiedName()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenSemicolon); err != nil {
			return nil, err
		}
		unit.Package = name
		unit.PackageDoc = doc
		unit.PackageAnnotations = h.annots
	} else {
		p.pos = start
	}

	for p.peek().isWord("import") {
		p.next()
		var b strings.Builder
		if p.peek().isWord("static") {
			p.next()
			b.WriteString("static ")
		}
		for tok := p.next(); tok.Kind != TokenSemicolon; tok = p.next() {
			if tok.Kind == TokenEOF {
				return nil, p.errorf(tok, "unterminated import")
			}
			b.WriteString(tok.Literal)
		}
		unit.Imports = append(unit.Imports, b.String())
	}

	for {
		tok := p.peek()
		switch {
		case tok.Kind == TokenEOF:
			return unit, nil
		case tok.Kind == TokenSemicolon:
			p.next()
			continue
		}
		h, err := p.head()
		if err != nil {
			return nil, err
		}
		// Module declarations have no documented types.
		if tok := p.peek(); tok.isWord("module") || (tok.isWord("open") && p.peekN(1).isWord("module")) {
			return unit, nil
		}
		if !p.atTypeDecl() {
			return nil, p.errorf(p.peek(), "expected type declaration, found %s", describe(p.peek()))
		}
		td, err := p.typeDecl(h, nil)
		if err != nil {
			return nil, err
		}
		unit.Types = append(unit.Types, td)
	}
}

// declHead is what precedes a declaration: its doc comment,
// annotations and modifiers.
type declHead struct {
	doc    string
	mods   []string
	annots []Annotation
}

func (p *parser) head() (declHead, error) {
	var h declHead
	for {
		tok := p.peek()
		if h.doc == "" {
			h.doc = tok.Doc
		}
		switch {
		case tok.Kind == TokenAt && !p.peekN(1).isWord("interface"):
			a, err := p.annotation()
			if err != nil {
				return h, err
			}
			h.annots = append(h.annots, a)
		case tok.Kind == TokenIdent && modifiers[tok.Literal]:
			p.next()
			h.mods = append(h.mods, tok.Literal)
		default:
			return h, nil
		}
	}
}

func (p *parser) qualifiedName() (string, error) {
	tok, err := p.ident()
	if err != nil {
		return "", err
	}
	name := tok.Literal
	for p.peek().Kind == TokenDot && p.peekN(1).Kind == TokenIdent {
		p.next()
		name += "." + p.next().Literal
	}
	return name, nil
}

func (p *parser) annotation() (Annotation, error) {
	p.next() // @
	name, err := p.qualifiedName()
	if err != nil {
		return Annotation{}, err
	}
	a := Annotation{Name: name}
	if p.peek().Kind != TokenLParen {
		return a, nil
	}
	p.next()
	a.Args = make(map[string]string)
	if p.peek().Kind == TokenRParen {
		p.next()
		return a, nil
	}
	for {
		key := "value"
		if p.peek().Kind == TokenIdent && p.peekN(1).Kind == TokenAssign {
			key = p.next().Literal
			p.next()
		}
		toks, err := p.skipUntil(TokenComma, TokenRParen)
		if err != nil {
			return a, err
		}
		a.Args[key] = elementValue(toks)
		if p.next().Kind == TokenRParen {
			return a, nil
		}
	}
}

// elementValue renders an annotation element value. A string literal,
// or a concatenation of them, yields the string itself.
func elementValue(toks []Token) string {
	strs := len(toks) > 0
	for _, t := range toks {
		if t.Kind != TokenString && !t.is(TokenOperator, "+") {
			strs = false
		}
	}
	var b strings.Builder
	for _, t := range toks {
		switch {
		case strs && t.Kind == TokenString:
			b.WriteString(unquote(t.Literal))
		case !strs:
			b.WriteString(t.Literal)
		}
	}
	return b.String()
}

func unquote(lit string) string {
	if s, err := strconv.Unquote(lit); err == nil {
		return s
	}
	return strings.TrimSuffix(strings.TrimPrefix(lit, `"`), `"`)
}

// skipUntil consumes tokens up to, not including, the first token of
// one of the stop kinds that is not nested in brackets. It returns the
// tokens consumed.
func (p *parser) skipUntil(stops ...TokenKind) ([]Token, error) {
	var toks []Token
	depth := 0
	for {
		tok := p.peek()
		if tok.Kind == TokenEOF {
			return nil, p.errorf(tok, "unexpected end of file")
		}
		if depth == 0 && slices.Contains(stops, tok.Kind) {
			return toks, nil
		}
		switch tok.Kind {
		case TokenLParen, TokenLBrace, TokenLBracket:
			depth++
		case TokenRParen, TokenRBrace, TokenRBracket:
			if depth == 0 {
				return nil, p.errorf(tok, "unexpected %s", tok.Kind)
			}
			depth--
		}
		toks = append(toks, p.next())
	}
}

func (p *parser) skipBlock() error {
	if _, err := p.expect(TokenLBrace); err != nil {
		return err
	}
	if _, err := p.skipUntil(TokenRBrace); err != nil {
		return err
	}
	p.next()
	return nil
}

func (p *parser) atTypeDecl() bool {
	tok := p.peek()
	switch {
	case tok.isWord("class"), tok.isWord("interface"), tok.isWord("enum"):
		return true
	case tok.Kind == TokenAt:
		return p.peekN(1).isWord("interface")
	case tok.isWord("record"):
		next := p.peekN(2).Kind
		return p.peekN(1).Kind == TokenIdent && (next == TokenLParen || next == TokenLT)
	}
	return false
}

func (p *parser) typeDecl(h declHead, enclosing *TypeDecl) (*TypeDecl, error) {
	tok := p.next()
	var kind TypeKind
	switch {
	case tok.isWord("class"):
		kind = KindClass
	case tok.isWord("interface"):
		kind = KindInterface
	case tok.isWord("enum"):
		kind = KindEnum
	case tok.isWord("record"):
		kind = KindRecord
	case tok.Kind == TokenAt && p.peek().isWord("interface"):
		p.next()
		kind = KindAnnotation
	default:
		return nil, p.errorf(tok, "expected type declaration, found %s", describe(tok))
	}
	name, err := p.ident()
	if err != nil {
		return nil, err
	}
	td := &TypeDecl{
		Kind:        kind,
		Name:        name.Literal,
		Doc:         h.doc,
		Modifiers:   h.mods,
		Annotations: h.annots,
		Pos:         name.Pos,
		Enclosing:   enclosing,
	}
	if td.Doc == "" {
		td.Doc = tok.Doc
	}
	if p.peek().Kind == TokenLT {
		if _, err := p.typeArgs(); err != nil {
			return nil, err
		}
	}
	if kind == KindRecord {
		params, err := p.params()
		if err != nil {
			return nil, err
		}
		for _, c := range params {
			td.Fields = append(td.Fields, &Field{
				Name:        c.Name,
				Type:        c.Type,
				Annotations: c.Annotations,
				Modifiers:   []string{"private", "final"},
				Pos:         td.Pos,
			})
		}
	}
	// extends, implements and permits clauses
	if _, err := p.skipUntil(TokenLBrace); err != nil {
		return nil, err
	}
	if err := p.typeBody(td); err != nil {
		return nil, err
	}
	return td, nil
}

func (p *parser) typeBody(td *TypeDecl) error {
	if _, err := p.expect(TokenLBrace); err != nil {
		return err
	}
	if td.Kind == KindEnum {
		if err := p.enumConstants(td); err != nil {
			return err
		}
	}
	for {
		switch tok := p.peek(); tok.Kind {
		case TokenRBrace:
			p.next()
			return nil
		case TokenSemicolon:
			p.next()
			continue
		case TokenEOF:
			return p.errorf(tok, "unexpected end of file in body of %s", td.Name)
		}
		if err := p.member(td); err != nil {
			return err
		}
	}
}

func (p *parser) enumConstants(td *TypeDecl) error {
	for {
		switch p.peek().Kind {
		case TokenSemicolon:
			p.next()
			return nil
		case TokenRBrace:
			return nil
		}
		h, err := p.head()
		if err != nil {
			return err
		}
		name, err := p.ident()
		if err != nil {
			return err
		}
		td.EnumConstants = append(td.EnumConstants, &EnumConstant{
			Name:        name.Literal,
			Doc:         h.doc,
			Annotations: h.annots,
			Pos:         name.Pos,
		})
		if p.peek().Kind == TokenLParen {
			p.next()
			if _, err := p.skipUntil(TokenRParen); err != nil {
				return err
			}
			p.next()
		}
		if p.peek().Kind == TokenLBrace {
			if err := p.skipBlock(); err != nil {
				return err
			}
		}
		switch tok := p.peek(); tok.Kind {
		case TokenComma:
			p.next()
		case TokenSemicolon:
			p.next()
			return nil
		case TokenRBrace:
			return nil
		default:
			return p.errorf(tok, "expected ',', ';' or '}' after enum constant, found %s", describe(tok))
		}
	}
}

func (p *parser) member(td *TypeDecl) error {
	h, err := p.head()
	if err != nil {
		return err
	}
	if p.peek().Kind == TokenLBrace {
		// initializer block
		return p.skipBlock()
	}
	if p.atTypeDecl() {
		nested, err := p.typeDecl(h, td)
		if err != nil {
			return err
		}
		td.Types = append(td.Types, nested)
		return nil
	}
	if p.peek().Kind == TokenLT {
		if _, err := p.typeArgs(); err != nil {
			return err
		}
	}
	if tok := p.peek(); tok.isWord(td.Name) {
		switch p.peekN(1).Kind {
		case TokenLParen:
			p.next()
			m := &Method{
				Name:        tok.Literal,
				Constructor: true,
				Doc:         h.doc,
				Modifiers:   h.mods,
				Annotations: h.annots,
				Pos:         tok.Pos,
			}
			if m.Params, err = p.params(); err != nil {
				return err
			}
			return p.methodRest(td, m)
		case TokenLBrace:
			// compact canonical constructor of a record
			p.next()
			return p.skipBlock()
		}
	}
	typ, err := p.typeName()
	if err != nil {
		return err
	}
	name, err := p.ident()
	if err != nil {
		return err
	}
	if p.peek().Kind == TokenLParen {
		m := &Method{
			Name:        name.Literal,
			ReturnType:  typ,
			Doc:         h.doc,
			Modifiers:   h.mods,
			Annotations: h.annots,
			Pos:         name.Pos,
		}
		if m.Params, err = p.params(); err != nil {
			return err
		}
		return p.methodRest(td, m)
	}
	return p.fields(td, h, typ, name)
}

// methodRest skips a method's throws clause, annotation default value
// and body.
func (p *parser) methodRest(td *TypeDecl, m *Method) error {
	td.Methods = append(td.Methods, m)
	if _, err := p.skipUntil(TokenSemicolon, TokenLBrace); err != nil {
		return err
	}
	if p.peek().Kind == TokenLBrace {
		return p.skipBlock()
	}
	p.next()
	return nil
}

func (p *parser) params() ([]Param, error) {
	if _, err := p.expect(TokenLParen); err != nil {
		return nil, err
	}
	var params []Param
	if p.peek().Kind == TokenRParen {
		p.next()
		return params, nil
	}
	for {
		h, err := p.head()
		if err != nil {
			return nil, err
		}
		typ, err := p.typeName()
		if err != nil {
			return nil, err
		}
		param := Param{Type: typ, Annotations: h.annots}
		if p.peek().Kind == TokenEllipsis {
			p.next()
			param.Varargs = true
		}
		if p.peek().isWord("this") {
			// receiver parameter
			p.next()
		} else {
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			param.Name = name.Literal
			for p.peek().Kind == TokenLBracket {
				p.next()
				if _, err := p.expect(TokenRBracket); err != nil {
					return nil, err
				}
				param.Type += "[]"
			}
			params = append(params, param)
		}
		switch tok := p.next(); tok.Kind {
		case TokenComma:
		case TokenRParen:
			return params, nil
		default:
			return nil, p.errorf(tok, "expected ',' or ')' in parameter list, found %s", describe(tok))
		}
	}
}

// typeName reads a type as written, without its annotations.
func (p *parser) typeName() (string, error) {
	for p.peek().Kind == TokenAt {
		if _, err := p.annotation(); err != nil {
			return "", err
		}
	}
	tok := p.next()
	if tok.Kind != TokenIdent || (IsKeyword(tok.Literal) && !primitives[tok.Literal]) {
		return "", p.errorf(tok, "expected type, found %s", describe(tok))
	}
	var b strings.Builder
	b.WriteString(tok.Literal)
	for {
		switch p.peek().Kind {
		case TokenDot:
			if k := p.peekN(1).Kind; k != TokenIdent && k != TokenAt {
				return b.String(), nil
			}
			p.next()
			for p.peek().Kind == TokenAt {
				if _, err := p.annotation(); err != nil {
					return "", err
				}
			}
			name, err := p.ident()
			if err != nil {
				return "", err
			}
			b.WriteString("." + name.Literal)
		case TokenLT:
			args, err := p.typeArgs()
			if err != nil {
				return "", err
			}
			b.WriteString(args)
		case TokenLBracket:
			if p.peekN(1).Kind != TokenRBracket {
				return b.String(), nil
			}
			p.next()
			p.next()
			b.WriteString("[]")
		case TokenAt:
			// annotated array dimension
			if _, err := p.annotation(); err != nil {
				return "", err
			}
		default:
			return b.String(), nil
		}
	}
}

// typeArgs reads a bracketed list of type arguments or type
// parameters, such as <K, V extends Comparable<V>>.
func (p *parser) typeArgs() (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok := p.peek()
		switch tok.Kind {
		case TokenEOF, TokenSemicolon, TokenLBrace, TokenRBrace:
			return "", p.errorf(tok, "unterminated type arguments")
		case TokenAt:
			if _, err := p.annotation(); err != nil {
				return "", err
			}
			continue
		case TokenLT:
			depth++
		case TokenGT:
			depth--
		}
		p.next()
		switch {
		case tok.Kind == TokenComma:
			b.WriteString(", ")
		case tok.isWord("extends"), tok.isWord("super"):
			b.WriteString(" " + tok.Literal + " ")
		default:
			b.WriteString(tok.Literal)
		}
		if depth == 0 {
			return b.String(), nil
		}
	}
}

func (p *parser) fields(td *TypeDecl, h declHead, typ string, name Token) error {
	for {
		f := &Field{
			Name:        name.Literal,
			Type:        typ,
			Doc:         h.doc,
			Modifiers:   h.mods,
			Annotations: h.annots,
			Pos:         name.Pos,
		}
		for p.peek().Kind == TokenLBracket {
			p.next()
			if _, err := p.expect(TokenRBracket); err != nil {
				return err
			}
			f.Type += "[]"
		}
		td.Fields = append(td.Fields, f)
		if p.peek().Kind == TokenAssign {
			p.next()
			if err := p.skipInitializer(); err != nil {
				return err
			}
		}
		switch tok := p.next(); tok.Kind {
		case TokenSemicolon:
			return nil
		case TokenComma:
			next, err := p.ident()
			if err != nil {
				return err
			}
			name = next
		default:
			return p.errorf(tok, "expected ',' or ';' after field %s, found %s", f.Name, describe(tok))
		}
	}
}

// skipInitializer skips a variable initializer, stopping before the
// ',' or ';' that ends it. Type arguments are not bracketed for
// skipUntil, so a ',' only ends the initializer when another
// declarator follows it.
func (p *parser) skipInitializer() error {
	for {
		if _, err := p.skipUntil(TokenComma, TokenSemicolon); err != nil {
			return err
		}
		if p.peek().Kind == TokenSemicolon || p.startsDeclarator(1) {
			return nil
		}
		p.next()
	}
}

func (p *parser) startsDeclarator(n int) bool {
	if p.peekN(n).Kind != TokenIdent {
		return false
	}
	switch p.peekN(n + 1).Kind {
	case TokenAssign, TokenComma, TokenSemicolon, TokenLBracket:
		return true
	}
	return false
}
