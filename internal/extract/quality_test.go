package extract

import (
	"strings"
	"testing"

	"github.com/bertughas123/NormVision/internal/common"
)

func gate() *QualityGate {
	return NewQualityGate(common.ExtractConfig{})
}

func TestQualityGateAccept(t *testing.T) {
	longLatin := strings.Repeat("the quick brown fox jumps over the lazy dog ", 10)

	tests := []struct {
		name  string
		text  string
		pages int
		want  bool
	}{
		{"empty", "", 1, false},
		{"whitespace only", "   \n\t  ", 1, false},
		{"too short", "kisa metin", 1, false},
		{"low page density", strings.Repeat("a", 150), 2, false},
		{"turkish chars accept", strings.Repeat("x", 60) + " görüşme çok verimliydi " + strings.Repeat("y", 60), 1, true},
		{"low alnum ratio", strings.Repeat("#!@ $%^ &*( ", 30), 1, false},
		{"two keywords accept", "visit ciro and hedef mentioned " + strings.Repeat("text ", 30), 1, true},
		{"one keyword not enough", "only firma here " + strings.Repeat("ab ", 40), 1, false},
		{"high density default accept", longLatin, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gate().Accept(tt.text, tt.pages); got != tt.want {
				t.Errorf("Accept() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"collapse blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"collapse space runs", "a    b\t\tc", "a b c"},
		{"strip spaces around newlines", "a   \n   b", "a\nb"},
		{"drop form feed", "a\fb", "ab"},
		{"crlf to lf", "a\r\nb\rc", "a\nb\nc"},
		{"trims", "  a  ", "a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.input); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
