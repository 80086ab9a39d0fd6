// Package token defines the token kinds, literal payloads, and source
// positions produced by the lexer and consumed by the parser.
package token

import "fmt"

// Kind is the finite tag set for every lexeme the scanner can produce.
type Kind int

const (
	// Special.
	EOF Kind = iota
	ILLEGAL

	// Punctuation.
	LeftParen
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Minus
	Plus
	Semicolon
	Slash
	Star

	// One-or-two character.
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Literals.
	Identifier
	String
	Number

	// Keywords.
	And
	Class
	Else
	ElseIf
	False
	Fun
	For
	If
	Nil
	Or
	Print
	Return
	Super
	Self
	True
	Var
	While
)

var kindNames = [...]string{
	EOF:          "EOF",
	ILLEGAL:      "ILLEGAL",
	LeftParen:    "LeftParen",
	RightParen:   "RightParen",
	LeftBrace:    "LeftBrace",
	RightBrace:   "RightBrace",
	Comma:        "Comma",
	Dot:          "Dot",
	Minus:        "Minus",
	Plus:         "Plus",
	Semicolon:    "Semicolon",
	Slash:        "Slash",
	Star:         "Star",
	Bang:         "Bang",
	BangEqual:    "BangEqual",
	Equal:        "Equal",
	EqualEqual:   "EqualEqual",
	Greater:      "Greater",
	GreaterEqual: "GreaterEqual",
	Less:         "Less",
	LessEqual:    "LessEqual",
	Identifier:   "Identifier",
	String:       "String",
	Number:       "Number",
	And:          "And",
	Class:        "Class",
	Else:         "Else",
	ElseIf:       "ElseIf",
	False:        "False",
	Fun:          "Fun",
	For:          "For",
	If:           "If",
	Nil:          "Nil",
	Or:           "Or",
	Print:        "Print",
	Return:       "Return",
	Super:        "Super",
	Self:         "Self",
	True:         "True",
	Var:          "Var",
	While:        "While",
}

// String implements fmt.Stringer for diagnostic output.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps exact lowercase spellings to their Kind. "else if" is
// recognized by the parser as two tokens (Else followed by If); the
// single-word "elif" spelling is accepted by the lexer as an alternate
// spelling of ElseIf.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"elif":   ElseIf,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"self":   Self,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Literal is the typed payload carried by String and Number tokens.
// It mirrors the runtime Value variants so the lexer needs no dependency
// on the interp package.
type Literal struct {
	IsString bool
	IsNumber bool
	Str      string
	Num      float64
}

// Token is a lexeme plus its kind, position, and (for literals) payload.
type Token struct {
	Kind    Kind
	Lexeme  string
	Line    int
	Column  int
	Literal *Literal // non-nil only for String and Number tokens
}

// Position formats a token's location for diagnostics.
func (t Token) Position() string {
	return fmt.Sprintf("%d:%d", t.Line, t.Column)
}
