package lexer

import (
	"testing"

	"github.com/emberlang/ember/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenExpectation struct {
	Kind   token.Kind
	Lexeme string
}

func assertKinds(t *testing.T, input string, expected []tokenExpectation) {
	t.Helper()

	tokens, errs := Tokenize(input)
	require.Empty(t, errs, "unexpected tokenize errors for %q", input)
	require.Len(t, tokens, len(expected)+1, "expected a trailing EOF token")

	for i, exp := range expected {
		assert.Equal(t, exp.Kind, tokens[i].Kind, "token[%d] kind", i)
		assert.Equal(t, exp.Lexeme, tokens[i].Lexeme, "token[%d] lexeme", i)
	}
	assert.Equal(t, token.EOF, tokens[len(tokens)-1].Kind)
}

func TestTokenizePunctuationAndOperators(t *testing.T) {
	assertKinds(t, "(){},.-+;*!= == <= >= < >", []tokenExpectation{
		{token.LeftParen, "("},
		{token.RightParen, ")"},
		{token.LeftBrace, "{"},
		{token.RightBrace, "}"},
		{token.Comma, ","},
		{token.Dot, "."},
		{token.Minus, "-"},
		{token.Plus, "+"},
		{token.Semicolon, ";"},
		{token.Star, "*"},
		{token.BangEqual, "!="},
		{token.EqualEqual, "=="},
		{token.LessEqual, "<="},
		{token.GreaterEqual, ">="},
		{token.Less, "<"},
		{token.Greater, ">"},
	})
}

func TestTokenizeKeywordsAndIdentifiers(t *testing.T) {
	assertKinds(t, "var x = foo and bar", []tokenExpectation{
		{token.Var, "var"},
		{token.Identifier, "x"},
		{token.Equal, "="},
		{token.Identifier, "foo"},
		{token.And, "and"},
		{token.Identifier, "bar"},
	})
}

func TestTokenizeNumber(t *testing.T) {
	tokens, errs := Tokenize("3.14")
	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	require.NotNil(t, tokens[0].Literal)
	assert.InDelta(t, 3.14, tokens[0].Literal.Num, 1e-9)
}

func TestTokenizeString(t *testing.T) {
	tokens, errs := Tokenize(`"hello world"`)
	require.Empty(t, errs)
	require.Len(t, tokens, 2)
	require.NotNil(t, tokens[0].Literal)
	assert.Equal(t, "hello world", tokens[0].Literal.Str)
}

func TestTokenizeUnterminatedStringRecordsError(t *testing.T) {
	_, errs := Tokenize(`"unterminated`)
	require.Len(t, errs, 1)
	assert.Equal(t, "UNTERMINATED_STRING", string(errs[0].Kind))
}

func TestTokenizeUnrecognizedCharacterRecordsErrorAndContinues(t *testing.T) {
	tokens, errs := Tokenize("1 ` 2")
	require.Len(t, errs, 1)
	assert.Equal(t, "UNRECOGNIZED_CHARACTER", string(errs[0].Kind))
	// scanning continues past the bad character
	require.Len(t, tokens, 3) // 1, 2, EOF
}

func TestTokenizeCommentIsSkipped(t *testing.T) {
	tokens, errs := Tokenize("1 // trailing comment\n2")
	require.Empty(t, errs)
	require.Len(t, tokens, 3)
	assert.Equal(t, token.Number, tokens[0].Kind)
	assert.Equal(t, token.Number, tokens[1].Kind)
	assert.Equal(t, 2, tokens[1].Line)
}

func TestTokenizeLineAndColumnTracking(t *testing.T) {
	tokens, errs := Tokenize("var x\nvar y")
	require.Empty(t, errs)
	assert.Equal(t, 1, tokens[0].Line)
	assert.Equal(t, 2, tokens[2].Line)
}
