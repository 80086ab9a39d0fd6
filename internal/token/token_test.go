package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "Identifier", Identifier.String())
	assert.Equal(t, "EOF", EOF.String())
	assert.Equal(t, "Kind(999)", Kind(999).String())
}

func TestKeywordsCoverElseIf(t *testing.T) {
	kind, ok := Keywords["elif"]
	assert.True(t, ok)
	assert.Equal(t, ElseIf, kind)

	// "else" alone maps to Else; the parser is responsible for combining
	// a following "if" into an else-if arm.
	kind, ok = Keywords["else"]
	assert.True(t, ok)
	assert.Equal(t, Else, kind)
}

func TestTokenPosition(t *testing.T) {
	tok := Token{Kind: Identifier, Lexeme: "x", Line: 3, Column: 7}
	assert.Equal(t, "3:7", tok.Position())
}
