package lexer

import (
	"testing"

	"github.com/loxscript/loxgo/pkg/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanTokensPunctuationAndOperators(t *testing.T) {
	l := New("(){},.-+;*!=<=>=! < ==/")
	got := kinds(l.ScanTokens())
	want := []token.Kind{
		token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
		token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR,
		token.BANG_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL, token.BANG,
		token.LESS, token.EQUAL_EQUAL, token.SLASH, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanTokensStringLiteral(t *testing.T) {
	l := New(`"hello world"`)
	toks := l.ScanTokens()
	if len(toks) != 2 || toks[0].Kind != token.STRING {
		t.Fatalf("unexpected tokens: %+v", toks)
	}
	if toks[0].Literal != "hello world" {
		t.Errorf("literal = %v, want %q", toks[0].Literal, "hello world")
	}
}

func TestScanTokensUnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	l.ScanTokens()
	errs := l.Errors()
	if len(errs) != 1 || errs[0].Message != "unterminated string" {
		t.Fatalf("errors = %+v, want one unterminated string error", errs)
	}
}

func TestScanTokensNumbers(t *testing.T) {
	tests := []struct {
		src  string
		want float64
	}{
		{"123", 123},
		{"123.456", 123.456},
		{"0.5", 0.5},
	}
	for _, tt := range tests {
		l := New(tt.src)
		toks := l.ScanTokens()
		if toks[0].Kind != token.NUMBER || toks[0].Literal != tt.want {
			t.Errorf("scan(%q) = %+v, want NUMBER %v", tt.src, toks[0], tt.want)
		}
	}
}

func TestScanTokensInvalidNumber(t *testing.T) {
	l := New("123abc")
	l.ScanTokens()
	if len(l.Errors()) != 1 {
		t.Fatalf("errors = %+v, want one invalid number error", l.Errors())
	}
}

func TestScanTokensKeywordsAndIdentifiers(t *testing.T) {
	l := New("class fun orchid _x1")
	toks := l.ScanTokens()
	want := []token.Kind{token.CLASS, token.FUN, token.IDENTIFIER, token.IDENTIFIER, token.EOF}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestScanTokensCommentsAndWhitespace(t *testing.T) {
	l := New("// a comment\nvar x = 1; // trailing\n")
	toks := l.ScanTokens()
	want := []token.Kind{token.VAR, token.IDENTIFIER, token.EQUAL, token.NUMBER, token.SEMICOLON, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(toks), kinds(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d = %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestScanTokensLineTracking(t *testing.T) {
	l := New("var a = 1;\nvar b = 2;")
	toks := l.ScanTokens()
	// second "var" should be on line 2
	var secondVarLine int
	count := 0
	for _, tok := range toks {
		if tok.Kind == token.VAR {
			count++
			if count == 2 {
				secondVarLine = tok.Line
			}
		}
	}
	if secondVarLine != 2 {
		t.Errorf("second var line = %d, want 2", secondVarLine)
	}
}

func TestScanTokensUnknownCharacter(t *testing.T) {
	l := New("@")
	l.ScanTokens()
	if len(l.Errors()) != 1 {
		t.Fatalf("errors = %+v, want one unknown character error", l.Errors())
	}
}
