package parser

import "strings"

// DefaultMaxDepth bounds the nesting of braced groups that are parsed
// recursively. Deeper groups are kept, but flattened.
const DefaultMaxDepth = 256

type Option func(*Parser)

// WithMaxDepth sets the recursion cap for nested braces. Values below one
// fall back to DefaultMaxDepth.
func WithMaxDepth(depth int) Option {
	return func(p *Parser) {
		if depth > 0 {
			p.maxDepth = depth
		}
	}
}

type Parser struct {
	tokens   []Token
	sig      []int // indexes into tokens, trivia removed
	pos      int   // index into sig
	nested   bool  // inside a declaration, where '%' comments are skipped
	maxDepth int
	end      Position
}

// Parse builds the syntax tree of text. It never fails: malformed input
// yields partial nodes and comment declarations.
func Parse(text string, opts ...Option) *Node {
	return ParseTokens(Tokenize(text), opts...)
}

// ParseTokens builds the syntax tree from a token stream produced by
// Tokenize. Whitespace tokens are used to reproduce the verbatim text of
// comment declarations.
func ParseTokens(tokens []Token, opts ...Option) *Node {
	p := &Parser{
		tokens:   tokens,
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(p)
	}
	for i, tok := range tokens {
		if !tok.Kind.IsTrivia() && tok.Kind != TokenEOF {
			p.sig = append(p.sig, i)
		}
	}
	if len(tokens) > 0 {
		p.end = tokens[len(tokens)-1].Span.End
	}
	return p.parseRoot()
}

// skip returns the first index at or after i that the parser looks at.
func (p *Parser) skip(i int) int {
	for p.nested && i < len(p.sig) && p.tokens[p.sig[i]].Kind == TokenComment {
		i++
	}
	return i
}

func (p *Parser) at(i int) Token {
	if i >= len(p.sig) {
		return Token{Kind: TokenEOF, Span: Span{Start: p.end, End: p.end}}
	}
	return p.tokens[p.sig[i]]
}

func (p *Parser) peek() Token {
	return p.at(p.skip(p.pos))
}

func (p *Parser) peekN(n int) Token {
	i := p.skip(p.pos)
	for ; n > 0 && i < len(p.sig); n-- {
		i = p.skip(i + 1)
	}
	return p.at(i)
}

func (p *Parser) advance() Token {
	i := p.skip(p.pos)
	tok := p.at(i)
	if i < len(p.sig) {
		p.pos = i + 1
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) leaf(kind NodeKind) *Node {
	return newLeaf(kind, p.advance())
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

// atBoundary reports whether the next token starts a new declaration: an
// "@word" that is the first token on its line and is followed by an opening
// delimiter. Open content scopes end there.
func (p *Parser) atBoundary() bool {
	i := p.skip(p.pos)
	tok := p.at(i)
	if !tok.Kind.IsDeclaration() {
		return false
	}
	if i > 0 {
		prev := p.tokens[p.sig[i-1]]
		if prev.Span.End.Line == tok.Span.Start.Line {
			return false
		}
	}
	next := p.peekN(1).Kind
	return next == TokenLBrace || next == TokenLParen
}

func (p *Parser) parseRoot() *Node {
	root := &Node{Kind: KindRoot}
	junkStart := -1

	flush := func(last int) {
		if junkStart >= 0 {
			root.Children = append(root.Children, p.commentNode(junkStart, last))
			junkStart = -1
		}
	}

	for p.pos < len(p.sig) {
		p.nested = false
		tok := p.peek()
		var decl *Node
		switch tok.Kind {
		case TokenPreambleType:
			flush(p.pos - 1)
			decl = p.parsePreamble()
		case TokenStringType:
			flush(p.pos - 1)
			decl = p.parseString()
		case TokenCommentType:
			flush(p.pos - 1)
			decl = p.parseCommentDecl()
		case TokenEntryType:
			flush(p.pos - 1)
			decl = p.parseEntry()
		default:
			if junkStart < 0 {
				junkStart = p.pos
			}
			p.advance()
			continue
		}
		root.Children = append(root.Children, decl)
	}
	flush(len(p.sig) - 1)

	root.Span = Span{End: p.end}
	return root
}

// commentNode turns the significant tokens first..last into a comment
// declaration holding the verbatim source between them.
func (p *Parser) commentNode(first, last int) *Node {
	from, to := p.sig[first], p.sig[last]
	var sb strings.Builder
	for _, tok := range p.tokens[from : to+1] {
		sb.WriteString(tok.Literal)
	}
	tok := Token{
		Kind:    TokenComment,
		Span:    Span{Start: p.tokens[from].Span.Start, End: p.tokens[to].Span.End},
		Literal: sb.String(),
	}
	return newLeaf(KindComment, tok)
}

func closingFor(open TokenKind) TokenKind {
	if open == TokenLParen {
		return TokenRParen
	}
	return TokenRBrace
}

// parseOpen consumes an opening delimiter and returns the matching closing
// kind, or TokenEOF when the declaration has no body.
func (p *Parser) parseOpen(node *Node) TokenKind {
	switch kind := p.peek().Kind; kind {
	case TokenLBrace, TokenLParen:
		node.AddChild(p.leaf(KindToken))
		return closingFor(kind)
	}
	return TokenEOF
}

func (p *Parser) parseClose(node *Node, closing TokenKind) {
	if p.check(closing) {
		node.AddChild(p.leaf(KindToken))
	}
}

func (p *Parser) parseCommentDecl() *Node {
	first := p.pos
	last := p.pos
	p.advance()

	open := p.peek().Kind
	if open != TokenLBrace && open != TokenLParen {
		return p.commentNode(first, last)
	}
	closing := closingFor(open)
	balance := 0
	for !p.check(TokenEOF) {
		switch p.peek().Kind {
		case open:
			balance++
		case closing:
			balance--
		}
		last = p.pos
		p.advance()
		if balance == 0 || p.atBoundary() {
			break
		}
	}
	return p.commentNode(first, last)
}

func (p *Parser) parsePreamble() *Node {
	p.nested = true
	node := &Node{Kind: KindPreamble}
	node.AddChild(p.leaf(KindToken))

	closing := p.parseOpen(node)
	if closing == TokenEOF {
		return node
	}
	if p.canStartValue() {
		node.AddChild(p.parseValue())
	}
	p.parseClose(node, closing)
	return node
}

func (p *Parser) parseString() *Node {
	p.nested = true
	node := &Node{Kind: KindString}
	node.AddChild(p.leaf(KindToken))

	closing := p.parseOpen(node)
	if closing == TokenEOF {
		return node
	}
	if p.check(TokenWord) {
		node.AddChild(p.leaf(KindToken))
	}
	if p.check(TokenAssign) {
		node.AddChild(p.leaf(KindToken))
		if p.canStartValue() {
			node.AddChild(p.parseValue())
		}
	}
	p.parseClose(node, closing)
	return node
}

func (p *Parser) parseEntry() *Node {
	p.nested = true
	node := &Node{Kind: KindEntry}
	node.AddChild(p.leaf(KindToken))

	closing := p.parseOpen(node)
	if closing == TokenEOF {
		return node
	}
	if p.check(TokenWord) && p.peekN(1).Kind != TokenAssign {
		node.AddChild(p.leaf(KindToken))
	}
	if p.check(TokenComma) {
		node.AddChild(p.leaf(KindToken))
	}
	for p.check(TokenWord) {
		progressed := p.mustProgress()
		node.AddChild(p.parseField())
		if !progressed() {
			break
		}
	}
	p.parseClose(node, closing)
	return node
}

func (p *Parser) parseField() *Node {
	node := &Node{Kind: KindField}
	node.AddChild(p.leaf(KindToken))

	if p.check(TokenAssign) {
		node.AddChild(p.leaf(KindToken))
		if p.canStartValue() {
			node.AddChild(p.parseValue())
		}
	}
	if p.check(TokenComma) {
		node.AddChild(p.leaf(KindToken))
	}
	return node
}

func (p *Parser) canStartValue() bool {
	switch p.peek().Kind {
	case TokenWord, TokenCommand, TokenLBrace, TokenQuote, TokenUnknown:
		return true
	}
	return false
}

// parseValue parses a field value. Concatenations are collected iteratively
// and folded into right-nested Concat nodes.
func (p *Parser) parseValue() *Node {
	items := []*Node{p.parseItem()}
	var ops []*Node
	for p.check(TokenConcat) {
		ops = append(ops, p.leaf(KindToken))
		if !p.canStartValue() {
			items = append(items, nil)
			break
		}
		items = append(items, p.parseItem())
	}

	result := items[len(items)-1]
	for i := len(ops) - 1; i >= 0; i-- {
		concat := &Node{Kind: KindConcat}
		concat.AddChild(items[i])
		concat.AddChild(ops[i])
		concat.AddChild(result)
		result = concat
	}
	return result
}

func (p *Parser) parseItem() *Node {
	switch p.peek().Kind {
	case TokenLBrace:
		return p.parseBraced(1)
	case TokenQuote:
		return p.parseQuoted()
	case TokenCommand:
		return p.leaf(KindCommand)
	}
	return p.leaf(KindWord)
}

func (p *Parser) parseQuoted() *Node {
	node := &Node{Kind: KindQuoted}
	node.AddChild(p.leaf(KindToken))
	for {
		if p.atBoundary() {
			return node
		}
		switch p.peek().Kind {
		case TokenQuote:
			node.AddChild(p.leaf(KindToken))
			return node
		case TokenEOF, TokenRBrace:
			return node
		case TokenLBrace:
			node.AddChild(p.parseBraced(2))
		case TokenCommand:
			node.AddChild(p.leaf(KindCommand))
		default:
			node.AddChild(p.leaf(KindWord))
		}
	}
}

func (p *Parser) parseBraced(depth int) *Node {
	if depth > p.maxDepth {
		return p.parseFlatBraced()
	}
	node := &Node{Kind: KindBraced}
	node.AddChild(p.leaf(KindToken))
	for {
		if p.atBoundary() {
			return node
		}
		switch p.peek().Kind {
		case TokenRBrace:
			node.AddChild(p.leaf(KindToken))
			return node
		case TokenEOF:
			return node
		case TokenLBrace:
			node.AddChild(p.parseBraced(depth + 1))
		case TokenCommand:
			node.AddChild(p.leaf(KindCommand))
		default:
			node.AddChild(p.leaf(KindWord))
		}
	}
}

// parseFlatBraced consumes a balanced group without recursing. Inner braces
// become token leaves of the group.
func (p *Parser) parseFlatBraced() *Node {
	node := &Node{Kind: KindBraced}
	node.AddChild(p.leaf(KindToken))
	balance := 0
	for {
		if p.atBoundary() {
			return node
		}
		switch p.peek().Kind {
		case TokenEOF:
			return node
		case TokenRBrace:
			node.AddChild(p.leaf(KindToken))
			if balance == 0 {
				return node
			}
			balance--
		case TokenLBrace:
			balance++
			node.AddChild(p.leaf(KindToken))
		case TokenCommand:
			node.AddChild(p.leaf(KindCommand))
		default:
			node.AddChild(p.leaf(KindWord))
		}
	}
}
