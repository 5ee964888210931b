package binasc

import "strings"

// Kind classifies a word of the text notation
type Kind int

const (
	KindHex Kind = iota
	KindBinary
	KindDecimal
	KindString
	KindAscii
	KindVLV
	KindPitchBend
	KindTempo
)

var kindNames = [...]string{
	KindHex:       "hex",
	KindBinary:    "binary",
	KindDecimal:   "decimal",
	KindString:    "string",
	KindAscii:     "ascii",
	KindVLV:       "vlv",
	KindPitchBend: "pitch-bend",
	KindTempo:     "tempo",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Token is one classified word of an input line
type Token struct {
	Text string // for KindString: the content without quotes and escapes
	Kind Kind
	Line int
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isComment(ch byte) bool {
	return ch == ';' || ch == '#' || ch == '/'
}

// Tokenize splits one line into classified tokens. A comment marker
// where a token would start hides the rest of the line; inside a word
// it is an ordinary character, so "+;" still names the byte ';'.
func Tokenize(line string, lineNum int) []Token {
	var tokens []Token
	i := 0
	for i < len(line) {
		ch := line[i]
		switch {
		case isComment(ch):
			return tokens
		case isSpace(ch):
			i++
		case ch == '"':
			var text string
			text, i = scanQuoted(line, i+1)
			tokens = append(tokens, Token{Text: text, Kind: KindString, Line: lineNum})
		default:
			start := i
			for i < len(line) && !isSpace(line[i]) {
				i++
			}
			word := line[start:i]
			tokens = append(tokens, Token{Text: word, Kind: classify(word), Line: lineNum})
		}
	}
	return tokens
}

// scanQuoted reads a string literal starting after its opening quote.
// An unterminated literal runs to the end of the line.
func scanQuoted(line string, i int) (string, int) {
	var sb strings.Builder
	for i < len(line) {
		switch {
		case line[i] == '\\' && i+1 < len(line) && line[i+1] == '"':
			sb.WriteByte('"')
			i += 2
		case line[i] == '"':
			return sb.String(), i + 1
		default:
			sb.WriteByte(line[i])
			i++
		}
	}
	return sb.String(), i
}

func classify(word string) Kind {
	switch word[0] {
	case '+':
		return KindAscii
	case 'v':
		return KindVLV
	case 'p':
		return KindPitchBend
	case 't':
		return KindTempo
	}
	switch {
	case strings.ContainsRune(word, '\''):
		return KindDecimal
	case strings.ContainsRune(word, ',') || len(word) > 2:
		return KindBinary
	default:
		return KindHex
	}
}
