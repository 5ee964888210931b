package binasc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeClassify(t *testing.T) {
	tests := []struct {
		word     string
		expected Kind
	}{
		{"ff", KindHex},
		{"0", KindHex},
		{"1010", KindBinary},
		{"1,1", KindBinary},
		{"'12", KindDecimal},
		{"2u'1000", KindDecimal},
		{"+a", KindAscii},
		{"v127", KindVLV},
		{"p0.5", KindPitchBend},
		{"t120", KindTempo},
		{"abc", KindBinary},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			tokens := Tokenize(tt.word, 1)
			require.Len(t, tokens, 1)
			if tokens[0].Kind != tt.expected {
				t.Errorf("Tokenize(%q) kind = %v, want %v", tt.word, tokens[0].Kind, tt.expected)
			}
		})
	}
}

func TestTokenizeComments(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		words []string
	}{
		{"semicolon", "4d 54 ; header", []string{"4d", "54"}},
		{"hash", "# nothing here", nil},
		{"slash", "ff\t/ rest", []string{"ff"}},
		{"marker inside word", "+; +#", []string{"+;", "+#"}},
		{"whitespace only", " \t \r", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var words []string
			for _, tok := range Tokenize(tt.line, 3) {
				require.Equal(t, 3, tok.Line)
				words = append(words, tok.Text)
			}
			require.Equal(t, tt.words, words)
		})
	}
}

func TestTokenizeQuotedString(t *testing.T) {
	tests := []struct {
		name string
		line string
		text string
		rest int
	}{
		{"plain", `"MThd"`, "MThd", 0},
		{"keeps comment markers", `"a;b#c/d" ff`, "a;b#c/d", 1},
		{"escaped quote", `"say \"hi\""`, `say "hi"`, 0},
		{"unterminated", `"open to the end`, "open to the end", 0},
		{"empty", `""`, "", 0},
		{"followed without space", `"ab"cd`, "ab", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.line, 1)
			require.Len(t, tokens, 1+tt.rest)
			require.Equal(t, KindString, tokens[0].Kind)
			require.Equal(t, tt.text, tokens[0].Text)
		})
	}
}

func TestKindString(t *testing.T) {
	if KindPitchBend.String() != "pitch-bend" {
		t.Errorf("KindPitchBend.String() = %q, want %q", KindPitchBend.String(), "pitch-bend")
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99).String() = %q, want %q", Kind(99).String(), "unknown")
	}
}
