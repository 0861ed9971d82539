// Package lexer tokenizes the loom text format: namespace declarations,
// typed object blocks, attribute assignments, and reference links.
package lexer

import (
	"fmt"
	"strconv"
	"unicode"
)

// Lexer tokenizes loom text source
type Lexer struct {
	source      []rune // Source as runes for Unicode support
	start       int    // Start position of current token
	current     int    // Current position in source
	line        int    // Current line number
	column      int    // Current column number
	startLine   int    // Line where current token started
	startColumn int    // Column where current token started
	file        string // Source file path
	tokens      []Token
	errors      []LexError
}

// New creates a new Lexer for the given source text
func New(source, file string) *Lexer {
	return &Lexer{
		source:      []rune(source),
		line:        1,
		column:      1,
		startLine:   1,
		startColumn: 1,
		file:        file,
		tokens:      make([]Token, 0, len(source)/8),
		errors:      make([]LexError, 0),
	}
}

// ScanTokens scans all tokens from the source and returns them with any errors
func (l *Lexer) ScanTokens() ([]Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		l.startLine = l.line
		l.startColumn = l.column
		l.scanToken()
	}

	l.tokens = append(l.tokens, Token{
		Type:   TOKEN_EOF,
		Line:   l.line,
		Column: l.column,
		File:   l.file,
	})

	return l.tokens, l.errors
}

func (l *Lexer) scanToken() {
	r := l.advance()

	switch r {
	case '{':
		l.addToken(TOKEN_LBRACE, nil)
	case '}':
		l.addToken(TOKEN_RBRACE, nil)
	case ':':
		l.addToken(TOKEN_COLON, nil)
	case '=':
		l.addToken(TOKEN_EQUAL, nil)
	case '-':
		if l.match('>') {
			l.addToken(TOKEN_ARROW, nil)
		} else if isDigit(l.peek()) {
			l.scanNumber()
		} else {
			l.addError("unexpected character '-'")
		}
	case '#':
		l.scanFragment()
	case '"':
		l.scanString()
	case '/':
		if l.match('/') {
			// Line comment, discard to end of line
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addError("unexpected character '/'")
		}
	case ' ', '\t', '\r':
		// Whitespace, ignore
	case '\n':
		l.line++
		l.column = 1
	default:
		if isDigit(r) {
			l.scanNumber()
		} else if isIdentStart(r) {
			l.scanIdentifier()
		} else {
			l.addError(fmt.Sprintf("unexpected character %q", r))
		}
	}
}

// scanFragment scans a fragment identifier such as #node1
func (l *Lexer) scanFragment() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	if l.current == l.start+1 {
		l.addError("expected identifier after '#'")
		return
	}
	id := string(l.source[l.start+1 : l.current])
	l.addToken(TOKEN_FRAGMENT, id)
}

// scanString scans a double-quoted string literal
func (l *Lexer) scanString() {
	var value []rune
	for l.peek() != '"' && !l.isAtEnd() {
		r := l.advance()
		if r == '\n' {
			l.addError("unterminated string literal")
			return
		}
		if r == '\\' {
			switch l.peek() {
			case '"':
				value = append(value, '"')
				l.advance()
			case '\\':
				value = append(value, '\\')
				l.advance()
			case 'n':
				value = append(value, '\n')
				l.advance()
			case 't':
				value = append(value, '\t')
				l.advance()
			default:
				l.addError(fmt.Sprintf("invalid escape sequence '\\%c'", l.peek()))
				return
			}
			continue
		}
		value = append(value, r)
	}

	if l.isAtEnd() {
		l.addError("unterminated string literal")
		return
	}

	l.advance() // Closing quote
	l.addToken(TOKEN_STRING_LITERAL, string(value))
}

// scanNumber scans an integer or float literal
func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}

	isFloat := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isFloat = true
		l.advance() // The '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	text := string(l.source[l.start:l.current])
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			l.addError(fmt.Sprintf("invalid float literal %q", text))
			return
		}
		l.addToken(TOKEN_FLOAT_LITERAL, f)
		return
	}

	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		l.addError(fmt.Sprintf("invalid integer literal %q", text))
		return
	}
	l.addToken(TOKEN_INT_LITERAL, n)
}

// scanIdentifier scans an identifier or keyword
func (l *Lexer) scanIdentifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}

	text := string(l.source[l.start:l.current])
	if tokenType, ok := keywords[text]; ok {
		l.addToken(tokenType, nil)
		return
	}
	l.addToken(TOKEN_IDENTIFIER, nil)
}

// Helper methods

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() rune {
	r := l.source[l.current]
	l.current++
	l.column++
	return r
}

func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() rune {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) addToken(tokenType TokenType, literal interface{}) {
	l.tokens = append(l.tokens, Token{
		Type:    tokenType,
		Lexeme:  string(l.source[l.start:l.current]),
		Literal: literal,
		Line:    l.startLine,
		Column:  l.startColumn,
		File:    l.file,
	})
}

func (l *Lexer) addError(message string) {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.startLine,
		Column:  l.startColumn,
		File:    l.file,
	})
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
