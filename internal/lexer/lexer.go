// Package lexer turns source text into a token stream, never aborting:
// malformed input produces diagnostics and the scanner consumes the
// offending region to make progress (spec: tokenize is panic-free).
package lexer

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emberlang/ember/internal/ember"
	"github.com/emberlang/ember/internal/token"
)

// ASCII classification tables, populated once in init(), mirroring the
// fast single-char dispatch the teacher uses for its own token scanner.
var (
	isWhitespaceTbl [128]bool
	isDigitTbl      [128]bool
	isIdentStartTbl [128]bool
	isIdentPartTbl  [128]bool
	singleCharKind  [128]token.Kind
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isWhitespaceTbl[i] = ch == ' ' || ch == '\t' || ch == '\r'
		isIdentStartTbl[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_'
		isDigitTbl[i] = '0' <= ch && ch <= '9'
		isIdentPartTbl[i] = isIdentStartTbl[i] || isDigitTbl[i]
		singleCharKind[i] = token.ILLEGAL
	}

	singleCharKind['('] = token.LeftParen
	singleCharKind[')'] = token.RightParen
	singleCharKind['{'] = token.LeftBrace
	singleCharKind['}'] = token.RightBrace
	singleCharKind[','] = token.Comma
	singleCharKind['.'] = token.Dot
	singleCharKind['-'] = token.Minus
	singleCharKind['+'] = token.Plus
	singleCharKind[';'] = token.Semicolon
	singleCharKind['*'] = token.Star
}

func isIdentStart(r rune) bool {
	return r < 128 && isIdentStartTbl[r]
}

func isIdentPart(r rune) bool {
	// Any rune that isn't itself part of an identifier terminates one,
	// so operators and punctuation end an identifier without needing to
	// be enumerated one by one.
	return r < 128 && isIdentPartTbl[r]
}

func isDigit(r rune) bool {
	return r < 128 && isDigitTbl[r]
}

func isWhitespace(r rune) bool {
	return r < 128 && isWhitespaceTbl[r]
}

// lexer holds the scan cursor over the source text.
type lexer struct {
	input   string
	pos     int // byte offset of l.ch
	readPos int // byte offset of the rune after l.ch
	ch      rune
	line    int
	column  int

	errors []*ember.Error
	logger *slog.Logger
}

func newLexer(source string) *lexer {
	logLevel := slog.LevelInfo
	if os.Getenv("EMBER_DEBUG_LEXER") != "" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))

	l := &lexer{input: source, line: 1, column: 0, logger: logger}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPos >= len(l.input) {
		l.pos = l.readPos
		l.ch = 0
		l.column++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.pos = l.readPos
	l.readPos += size
	l.ch = r
	l.column++
}

func (l *lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *lexer) addError(kind ember.Kind, line, col int, format string, args ...interface{}) {
	l.errors = append(l.errors, ember.New(kind, line, col, format, args...))
}

// Tokenize converts source into a token stream plus any diagnostics.
// It always produces a terminating Eof token and never panics.
func Tokenize(source string) ([]token.Token, []*ember.Error) {
	l := newLexer(source)
	var tokens []token.Token

	for {
		l.skipWhitespace()

		line, col := l.line, l.column
		if l.ch == 0 {
			tokens = append(tokens, token.Token{Kind: token.EOF, Lexeme: "", Line: line, Column: col})
			break
		}

		switch {
		case isIdentStart(l.ch):
			tokens = append(tokens, l.scanIdentifier(line, col))
		case isDigit(l.ch):
			tokens = append(tokens, l.scanNumber(line, col))
		case l.ch == '"':
			if t, ok := l.scanString(line, col); ok {
				tokens = append(tokens, t)
			}
		default:
			if t, ok := l.scanOperatorOrComment(line, col); ok {
				tokens = append(tokens, t)
			}
		}
	}

	l.logger.Debug("tokenize complete", "tokens", len(tokens), "errors", len(l.errors))
	return tokens, l.errors
}

func (l *lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\r' || l.ch == '\t' || l.ch == '\n' {
		l.readChar()
	}
}

func (l *lexer) scanIdentifier(line, col int) token.Token {
	start := l.pos
	for isIdentPart(l.ch) {
		l.readChar()
	}
	lexeme := l.input[start:l.pos]

	if kind, ok := token.Keywords[lexeme]; ok {
		return token.Token{Kind: kind, Lexeme: lexeme, Line: line, Column: col}
	}
	return token.Token{Kind: token.Identifier, Lexeme: lexeme, Line: line, Column: col}
}

func (l *lexer) scanNumber(line, col int) token.Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	lexeme := l.input[start:l.pos]

	value, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		l.addError(ember.ErrNumberParse, line, col, "Invalid number literal %q.", lexeme)
		value = 0
	}
	return token.Token{
		Kind: token.Number, Lexeme: lexeme, Line: line, Column: col,
		Literal: &token.Literal{IsNumber: true, Num: value},
	}
}

// scanString scans a double-quoted string. A newline or EOF before the
// closing quote records UnterminatedString and stops at the newline
// without consuming it, so subsequent tokens keep the correct line.
func (l *lexer) scanString(line, col int) (token.Token, bool) {
	l.readChar() // consume opening quote
	var sb strings.Builder

	for l.ch != '"' && l.ch != 0 && l.ch != '\n' {
		sb.WriteRune(l.ch)
		l.readChar()
	}

	if l.ch != '"' {
		l.addError(ember.ErrUnterminatedString, line, col, "Unterminated string.")
		return token.Token{}, false
	}

	inner := sb.String()
	l.readChar() // consume closing quote

	return token.Token{
		Kind: token.String, Lexeme: "\"" + inner + "\"", Line: line, Column: col,
		Literal: &token.Literal{IsString: true, Str: inner},
	}, true
}

func (l *lexer) scanOperatorOrComment(line, col int) (token.Token, bool) {
	ch := l.ch

	switch ch {
	case '!', '=', '<', '>':
		l.readChar()
		if l.ch == '=' {
			l.readChar()
			return token.Token{Kind: twoCharKind(ch), Lexeme: string(ch) + "=", Line: line, Column: col}, true
		}
		return token.Token{Kind: oneCharKind(ch), Lexeme: string(ch), Line: line, Column: col}, true

	case '/':
		if l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			return token.Token{}, false
		}
		l.readChar()
		return token.Token{Kind: token.Slash, Lexeme: "/", Line: line, Column: col}, true

	default:
		if ch < 128 && singleCharKind[ch] != token.ILLEGAL {
			l.readChar()
			return token.Token{Kind: singleCharKind[ch], Lexeme: string(ch), Line: line, Column: col}, true
		}
		l.addError(ember.ErrUnrecognizedCharacter, line, col, "Unrecognized character %q.", ch)
		l.readChar()
		return token.Token{}, false
	}
}

func oneCharKind(ch rune) token.Kind {
	switch ch {
	case '!':
		return token.Bang
	case '=':
		return token.Equal
	case '<':
		return token.Less
	case '>':
		return token.Greater
	default:
		return token.ILLEGAL
	}
}

func twoCharKind(ch rune) token.Kind {
	switch ch {
	case '!':
		return token.BangEqual
	case '=':
		return token.EqualEqual
	case '<':
		return token.LessEqual
	case '>':
		return token.GreaterEqual
	default:
		return token.ILLEGAL
	}
}
