package names

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"turkish letters", "Örnek Şirket Güçlü", "ORNEK_SIRKET_GUCLU"},
		{"dotted capital i", "İNŞAAT", "INSAAT"},
		{"dash variants", "Demir–Çelik", "DEMIR-CELIK"},
		{"collapses separators", "a__b..c", "A_B_C"},
		{"empty", "", "UNKNOWN_COMPANY"},
		{"only punctuation", "!!!", "UNKNOWN_COMPANY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFilename(t *testing.T) {
	if got := NormalizeFilename("Demir–Çelik A.Ş."); got != "DEMIR_CELIK_A_S" {
		t.Errorf("NormalizeFilename() = %q, want DEMIR_CELIK_A_S", got)
	}
}

func TestNormalizeLengthCap(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "ABCDEFGHIJ"
	}
	if got := Normalize(long); len(got) > 100 {
		t.Errorf("Normalize() length = %d, want <= 100", len(got))
	}
}

func TestBestMatch(t *testing.T) {
	candidates := []string{"ORNEK_METAL", "DEMIR_CELIK", "YILDIZ_VIDA"}

	t.Run("exact normalized match wins", func(t *testing.T) {
		got, ok := BestMatch("örnek metal", candidates, 0.7)
		if !ok || got != "ORNEK_METAL" {
			t.Errorf("BestMatch() = %q, %v", got, ok)
		}
	})

	t.Run("fuzzy above threshold", func(t *testing.T) {
		got, ok := BestMatch("örnek metall", candidates, 0.7)
		if !ok || got != "ORNEK_METAL" {
			t.Errorf("BestMatch() = %q, %v", got, ok)
		}
	})

	t.Run("fails closed below threshold", func(t *testing.T) {
		if got, ok := BestMatch("tamamen farklı firma", candidates, 0.7); ok {
			t.Errorf("BestMatch() = %q, want no match", got)
		}
	})

	t.Run("empty candidates", func(t *testing.T) {
		if _, ok := BestMatch("örnek", nil, 0.7); ok {
			t.Error("BestMatch() on empty candidates should fail")
		}
	})
}

func TestSimilarity(t *testing.T) {
	if got := Similarity("Örnek Metal", "ORNEK_METAL"); got != 1.0 {
		t.Errorf("Similarity() = %v, want 1.0", got)
	}
	if got := Similarity("abc", "xyz"); got > 0.1 {
		t.Errorf("Similarity() = %v, want near 0", got)
	}
}
