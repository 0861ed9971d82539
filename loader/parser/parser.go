// Package parser transforms loom text token streams into raw document
// nodes. The parser is purely structural: it knows the shape of the
// format but nothing about metamodels, so the loader can run the same
// parse for a metamodel stream and a model stream.
package parser

import (
	"fmt"

	"github.com/loom-modeling/loom/loader/lexer"
)

// ParseError represents a structural parse failure
type ParseError struct {
	Message  string
	Location SourceLocation
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Location, e.Message)
}

// Parser transforms a token stream into a Document
type Parser struct {
	tokens  []lexer.Token
	current int
}

// New creates a new Parser from a token stream
func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse parses the token stream. The first structural error aborts the
// parse; a loader never works with a partial document.
func (p *Parser) Parse() (*Document, error) {
	doc := &Document{}

	for p.check(lexer.TOKEN_USE) {
		decl, err := p.parseNamespaceDecl()
		if err != nil {
			return nil, err
		}
		doc.Namespaces = append(doc.Namespaces, decl)
	}

	for !p.isAtEnd() {
		obj, err := p.parseObject()
		if err != nil {
			return nil, err
		}
		doc.Roots = append(doc.Roots, obj)
	}

	return doc, nil
}

// parseNamespaceDecl parses `use <prefix> "<nsURI>"`
func (p *Parser) parseNamespaceDecl() (NamespaceDecl, error) {
	useToken := p.advance() // The 'use' keyword

	prefix, err := p.consume(lexer.TOKEN_IDENTIFIER, "expected namespace prefix after 'use'")
	if err != nil {
		return NamespaceDecl{}, err
	}
	uri, err := p.consume(lexer.TOKEN_STRING_LITERAL, "expected namespace URI string")
	if err != nil {
		return NamespaceDecl{}, err
	}

	return NamespaceDecl{
		Prefix:   prefix.Lexeme,
		URI:      uri.Literal.(string),
		Location: TokenToLocation(useToken),
	}, nil
}

// parseObject parses `prefix:Class [#id] { entry* }`
func (p *Parser) parseObject() (*ObjectNode, error) {
	prefix, err := p.consume(lexer.TOKEN_IDENTIFIER, "expected namespace prefix")
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(lexer.TOKEN_COLON, "expected ':' in type reference"); err != nil {
		return nil, err
	}
	class, err := p.consume(lexer.TOKEN_IDENTIFIER, "expected class name")
	if err != nil {
		return nil, err
	}

	obj := &ObjectNode{
		Prefix:   prefix.Lexeme,
		Class:    class.Lexeme,
		Location: TokenToLocation(prefix),
	}

	if p.check(lexer.TOKEN_FRAGMENT) {
		obj.ID = p.advance().Literal.(string)
	}

	if _, err := p.consume(lexer.TOKEN_LBRACE, "expected '{' to open object body"); err != nil {
		return nil, err
	}

	for !p.check(lexer.TOKEN_RBRACE) && !p.isAtEnd() {
		if err := p.parseEntry(obj); err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(lexer.TOKEN_RBRACE, "expected '}' to close object body"); err != nil {
		return nil, err
	}

	return obj, nil
}

// parseEntry parses one body entry: an attribute assignment, a nested
// containment object, or a non-containment link.
func (p *Parser) parseEntry(obj *ObjectNode) error {
	name, err := p.consume(lexer.TOKEN_IDENTIFIER, "expected feature name")
	if err != nil {
		return err
	}
	loc := TokenToLocation(name)

	switch {
	case p.check(lexer.TOKEN_EQUAL):
		p.advance()
		value, err := p.parseLiteral()
		if err != nil {
			return err
		}
		obj.Attrs = append(obj.Attrs, AttrEntry{
			Name:     name.Lexeme,
			Value:    value,
			Location: loc,
		})

	case p.check(lexer.TOKEN_COLON):
		p.advance()
		child, err := p.parseObject()
		if err != nil {
			return err
		}
		obj.Children = append(obj.Children, ChildEntry{
			Ref:      name.Lexeme,
			Object:   child,
			Location: loc,
		})

	case p.check(lexer.TOKEN_ARROW):
		p.advance()
		target, err := p.consume(lexer.TOKEN_FRAGMENT, "expected '#id' link target")
		if err != nil {
			return err
		}
		obj.Links = append(obj.Links, LinkEntry{
			Ref:      name.Lexeme,
			TargetID: target.Literal.(string),
			Location: loc,
		})

	default:
		return p.errorAt(p.peek(), fmt.Sprintf(
			"expected '=', ':' or '->' after feature name %q, got %s",
			name.Lexeme, p.peek().Type))
	}

	return nil
}

// parseLiteral parses a raw attribute value
func (p *Parser) parseLiteral() (Literal, error) {
	t := p.advance()
	switch t.Type {
	case lexer.TOKEN_STRING_LITERAL:
		return Literal{Kind: LiteralString, Text: t.Lexeme, Str: t.Literal.(string)}, nil
	case lexer.TOKEN_INT_LITERAL:
		return Literal{Kind: LiteralInt, Text: t.Lexeme, Int: t.Literal.(int64)}, nil
	case lexer.TOKEN_FLOAT_LITERAL:
		return Literal{Kind: LiteralFloat, Text: t.Lexeme, Float: t.Literal.(float64)}, nil
	case lexer.TOKEN_TRUE:
		return Literal{Kind: LiteralBool, Text: t.Lexeme, Bool: true}, nil
	case lexer.TOKEN_FALSE:
		return Literal{Kind: LiteralBool, Text: t.Lexeme, Bool: false}, nil
	default:
		return Literal{}, p.errorAt(t, fmt.Sprintf("expected literal value, got %s", t.Type))
	}
}

// Helper methods for token manipulation

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.TOKEN_EOF
}

func (p *Parser) peek() lexer.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // EOF
	}
	return p.tokens[p.current]
}

func (p *Parser) advance() lexer.Token {
	t := p.peek()
	if !p.isAtEnd() {
		p.current++
	}
	return t
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.peek().Type == tokenType
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) (lexer.Token, error) {
	if p.check(tokenType) {
		return p.advance(), nil
	}
	return lexer.Token{}, p.errorAt(p.peek(), fmt.Sprintf("%s, got %s", message, p.peek().Type))
}

func (p *Parser) errorAt(t lexer.Token, message string) error {
	return &ParseError{
		Message:  message,
		Location: TokenToLocation(t),
	}
}
