// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"image/color"
	"strings"
	"unicode"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// TokenType classifies a run of characters in a renderer script.
type TokenType int

const (
	TokenPlain TokenType = iota
	TokenKeyword
	TokenString
	TokenComment
	TokenNumber
	TokenOperator
	TokenBuiltinType
)

// Token is a run of source text of one type.
type Token struct {
	Type TokenType
	Text string
}

// syntaxStyles maps token types to TextGrid styles. Plain text uses the
// theme foreground.
var syntaxStyles = map[TokenType]widget.TextGridStyle{
	TokenKeyword: &widget.CustomTextGridStyle{
		FGColor:   color.NRGBA{R: 255, G: 20, B: 147, A: 255},
		TextStyle: fyne.TextStyle{Bold: true},
	},
	TokenString: &widget.CustomTextGridStyle{
		FGColor: color.NRGBA{R: 0, G: 180, B: 0, A: 255},
	},
	TokenComment: &widget.CustomTextGridStyle{
		FGColor:   color.NRGBA{R: 128, G: 128, B: 128, A: 255},
		TextStyle: fyne.TextStyle{Italic: true},
	},
	TokenNumber: &widget.CustomTextGridStyle{
		FGColor: color.NRGBA{R: 0, G: 150, B: 255, A: 255},
	},
	TokenOperator: &widget.CustomTextGridStyle{
		FGColor: color.NRGBA{R: 120, G: 120, B: 120, A: 255},
	},
	TokenBuiltinType: &widget.CustomTextGridStyle{
		FGColor:   color.NRGBA{R: 0, G: 180, B: 180, A: 255},
		TextStyle: fyne.TextStyle{Bold: true},
	},
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true,
	"continue": true, "default": true, "defer": true, "else": true,
	"fallthrough": true, "for": true, "func": true, "go": true,
	"goto": true, "if": true, "import": true, "interface": true,
	"map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true,
	"var": true,
}

var goBuiltinTypes = map[string]bool{
	"bool": true, "byte": true, "error": true, "float32": true,
	"float64": true, "int": true, "int8": true, "int16": true,
	"int32": true, "int64": true, "rune": true, "string": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true,
	"uint64": true, "any": true, "nil": true, "true": true, "false": true,
}

const goOperators = "+-*/%&|^<>=!:;,.()[]{}~"

// TokenizeGoLine splits one line of Go source into tokens. Block comments
// and raw strings spanning lines are not tracked.
func TokenizeGoLine(line string) []Token {
	var tokens []Token
	runes := []rune(line)

	emit := func(t TokenType, start, end int) {
		if n := len(tokens); n > 0 && tokens[n-1].Type == t {
			tokens[n-1].Text += string(runes[start:end])
			return
		}
		tokens = append(tokens, Token{Type: t, Text: string(runes[start:end])})
	}

	for pos := 0; pos < len(runes); {
		r := runes[pos]
		switch {
		case r == '/' && pos+1 < len(runes) && runes[pos+1] == '/':
			emit(TokenComment, pos, len(runes))
			return tokens
		case r == '"' || r == '`' || r == '\'':
			end := scanQuoted(runes, pos)
			emit(TokenString, pos, end)
			pos = end
		case unicode.IsDigit(r):
			end := scanWhile(runes, pos, func(r rune) bool {
				return unicode.IsDigit(r) || strings.ContainsRune(".eExXabcdefABCDEF_", r)
			})
			emit(TokenNumber, pos, end)
			pos = end
		case unicode.IsLetter(r) || r == '_':
			end := scanWhile(runes, pos, func(r rune) bool {
				return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
			})
			word := string(runes[pos:end])
			switch {
			case goKeywords[word]:
				emit(TokenKeyword, pos, end)
			case goBuiltinTypes[word]:
				emit(TokenBuiltinType, pos, end)
			default:
				emit(TokenPlain, pos, end)
			}
			pos = end
		case strings.ContainsRune(goOperators, r):
			emit(TokenOperator, pos, pos+1)
			pos++
		default:
			emit(TokenPlain, pos, pos+1)
			pos++
		}
	}
	return tokens
}

// HighlightGoLine converts a line into a styled TextGrid row.
func HighlightGoLine(line string) widget.TextGridRow {
	var row widget.TextGridRow
	for _, tok := range TokenizeGoLine(line) {
		style := syntaxStyles[tok.Type]
		for _, r := range tok.Text {
			row.Cells = append(row.Cells, widget.TextGridCell{Rune: r, Style: style})
		}
	}
	return row
}

// scanQuoted returns the index after the closing quote, or the line end.
func scanQuoted(runes []rune, start int) int {
	quote := runes[start]
	for pos := start + 1; pos < len(runes); pos++ {
		if quote != '`' && runes[pos] == '\\' {
			pos++
			continue
		}
		if runes[pos] == quote {
			return pos + 1
		}
	}
	return len(runes)
}

func scanWhile(runes []rune, start int, ok func(rune) bool) int {
	pos := start
	for pos < len(runes) && ok(runes[pos]) {
		pos++
	}
	return pos
}
