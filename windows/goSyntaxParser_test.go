package windows

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeGoLine(t *testing.T) {
	tokens := TokenizeGoLine(`func Render(v interface{}) string { return "x\"y" } // done`)

	assert.Equal(t, Token{TokenKeyword, "func"}, tokens[0])
	assert.Equal(t, Token{TokenPlain, " Render"}, tokens[1])
	assert.Contains(t, tokens, Token{TokenString, `"x\"y"`})
	assert.Contains(t, tokens, Token{TokenBuiltinType, "string"})
	assert.Equal(t, Token{TokenComment, "// done"}, tokens[len(tokens)-1])
}

func TestTokenizeGoLineNumbersAndOperators(t *testing.T) {
	tokens := TokenizeGoLine("x := 0x1F + 3.5")
	assert.Equal(t, []Token{
		{TokenPlain, "x "},
		{TokenOperator, ":="},
		{TokenPlain, " "},
		{TokenNumber, "0x1F"},
		{TokenPlain, " "},
		{TokenOperator, "+"},
		{TokenPlain, " "},
		{TokenNumber, "3.5"},
	}, tokens)
}

func TestTokenizeUnclosedString(t *testing.T) {
	tokens := TokenizeGoLine("s := `raw")
	assert.Equal(t, Token{TokenString, "`raw"}, tokens[len(tokens)-1])
	assert.Empty(t, TokenizeGoLine(""))
}

func TestHighlightGoLine(t *testing.T) {
	row := HighlightGoLine("if x")
	assert.Len(t, row.Cells, 4)
	assert.Equal(t, 'i', row.Cells[0].Rune)
	assert.Equal(t, syntaxStyles[TokenKeyword], row.Cells[0].Style)
	assert.Nil(t, row.Cells[3].Style)
}
