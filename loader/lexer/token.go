package lexer

import "fmt"

// TokenType represents the type of token in the loom text format
type TokenType int

const (
	// Special tokens
	TOKEN_EOF TokenType = iota

	// Keywords
	TOKEN_USE
	TOKEN_TRUE
	TOKEN_FALSE

	// Literals
	TOKEN_IDENTIFIER
	TOKEN_STRING_LITERAL
	TOKEN_INT_LITERAL
	TOKEN_FLOAT_LITERAL
	TOKEN_FRAGMENT // #someID

	// Operators
	TOKEN_COLON // :
	TOKEN_EQUAL // =
	TOKEN_ARROW // ->

	// Delimiters
	TOKEN_LBRACE // {
	TOKEN_RBRACE // }
)

// Token represents a single lexical token
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{} // For literals (numbers, strings, fragment IDs)
	Line    int
	Column  int
	File    string
}

// String returns a string representation of the token type
func (t TokenType) String() string {
	switch t {
	case TOKEN_EOF:
		return "EOF"
	case TOKEN_USE:
		return "USE"
	case TOKEN_TRUE:
		return "TRUE"
	case TOKEN_FALSE:
		return "FALSE"
	case TOKEN_IDENTIFIER:
		return "IDENTIFIER"
	case TOKEN_STRING_LITERAL:
		return "STRING_LITERAL"
	case TOKEN_INT_LITERAL:
		return "INT_LITERAL"
	case TOKEN_FLOAT_LITERAL:
		return "FLOAT_LITERAL"
	case TOKEN_FRAGMENT:
		return "FRAGMENT"
	case TOKEN_COLON:
		return "COLON"
	case TOKEN_EQUAL:
		return "EQUAL"
	case TOKEN_ARROW:
		return "ARROW"
	case TOKEN_LBRACE:
		return "LBRACE"
	case TOKEN_RBRACE:
		return "RBRACE"
	default:
		return "UNKNOWN"
	}
}

// String returns a string representation of the token
func (t Token) String() string {
	if t.Literal != nil {
		return fmt.Sprintf("%s(%v) [%d:%d]", t.Type, t.Literal, t.Line, t.Column)
	}
	return fmt.Sprintf("%s(%s) [%d:%d]", t.Type, t.Lexeme, t.Line, t.Column)
}

// LexError represents a lexical analysis error
type LexError struct {
	Message string
	Line    int
	Column  int
	File    string
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// keywords maps reserved identifiers to their token types
var keywords = map[string]TokenType{
	"use":   TOKEN_USE,
	"true":  TOKEN_TRUE,
	"false": TOKEN_FALSE,
}
